// Command mac-bootstrap provisions a macOS development workstation.
// Every step checks before it acts, so it is safe to run again.
package main

import "mac-bootstrap/cmd"

func main() {
	cmd.Execute()
}
