package pkgmgr

import (
	"context"
	"encoding/json"

	"mac-bootstrap/internal/runner"
)

// Pip manages Python packages through a pip executable (pip3 by default).
type Pip struct {
	r   runner.Runner
	bin string
}

// NewPip returns a Pip that shells out to bin.
func NewPip(r runner.Runner, bin string) *Pip {
	if bin == "" {
		bin = "pip3"
	}
	return &Pip{r: r, bin: bin}
}

// IsInstalled uses `pip show`, which exits non-zero for unknown packages.
func (p *Pip) IsInstalled(ctx context.Context, name string) (bool, error) {
	if _, err := p.r.Output(ctx, p.bin, "show", name); err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, nil
	}
	return true, nil
}

// Install runs `pip install name`.
func (p *Pip) Install(ctx context.Context, name string) error {
	return p.r.Run(ctx, p.bin, "install", name)
}

// Npm manages global npm packages.
type Npm struct {
	r   runner.Runner
	bin string
}

// NewNpm returns an Npm that shells out to bin.
func NewNpm(r runner.Runner, bin string) *Npm {
	if bin == "" {
		bin = "npm"
	}
	return &Npm{r: r, bin: bin}
}

// IsInstalled reads the global dependency tree as JSON.
// npm exits non-zero when the package is missing but still prints a document.
func (n *Npm) IsInstalled(ctx context.Context, name string) (bool, error) {
	out, err := n.r.Output(ctx, n.bin, "ls", "-g", "--depth=0", name, "--json")
	if err != nil && ctx.Err() != nil {
		return false, ctx.Err()
	}
	if out == "" {
		return false, nil
	}
	var data struct {
		Dependencies map[string]struct {
			Version string `json:"version"`
		} `json:"dependencies"`
	}
	if jerr := json.Unmarshal([]byte(out), &data); jerr != nil {
		return false, nil
	}
	_, ok := data.Dependencies[name]
	return ok, nil
}

// Install runs `npm install -g name` without the funding and audit chatter.
func (n *Npm) Install(ctx context.Context, name string) error {
	return n.r.Run(ctx, n.bin, "install", "-g", name, "--no-fund", "--no-audit")
}
