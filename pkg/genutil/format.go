package genutil

import (
	"os/exec"

	"github.com/fatih/color"

	"github.com/oaspipe/sdkgen/pkg/errs"
)

var warnColor = color.New(color.FgYellow)

// RunFormatter invokes an external formatter over the emitted files. Formatting is
// advisory: a missing binary or a non-zero exit prints a warning and returns nil,
// never failing the run or touching the output.
func RunFormatter(workDir, formatter string, args ...string) error {
	bin, err := exec.LookPath(formatter)
	if err != nil {
		warn(&errs.FormatterWarning{Formatter: formatter, Cause: err})
		return nil
	}
	cmd := exec.Command(bin, args...)
	cmd.Dir = workDir
	if out, err := cmd.CombinedOutput(); err != nil {
		warn(&errs.FormatterWarning{Formatter: formatter, Cause: err})
		if len(out) > 0 {
			warnColor.Fprintln(color.Error, string(out))
		}
		return nil
	}
	return nil
}

func warn(w *errs.FormatterWarning) {
	warnColor.Fprintln(color.Error, "warning: "+w.Error())
}
