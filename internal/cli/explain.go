package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/scope/internal/presentation/tui"
)

const reference = `# scope

| Construct | Loop form | Closure form |
|---|---|---|
| Guard | ` + "`for range scope.Guard(before, after)`" + ` | ` + "`scope.Run(before, after, fn)`" + ` |
| Exit | ` + "`for range scope.Exit(after)`" + ` | ` + "`scope.RunExit(after, fn)`" + ` |
| Declaration | ` + "`for v := range scope.Using(acquire, release)`" + ` | ` + "`scope.Do(acquire, release, fn)`" + ` |
| Fallible declaration | ` + "`for v, err := range scope.Acquire(acquire, release)`" + ` | ` + "`scope.With(acquire, release, fn)`" + ` |
| Stacked declarations | ` + "`for a, b := range scope.Nest(outer, inner)`" + ` | nest ` + "`scope.Do`" + ` |

## Leaving early

- Loop form: ` + "`break`" + ` or ` + "`continue`" + ` leaves the innermost guard and runs the after action.
- Closure form: ` + "`return`" + ` from the block function.

The after action runs exactly once per activation, also when the enclosing
function returns or panics inside the block.
`

// Explain writes the construct reference, rendered for a terminal when styled is true.
func Explain(w io.Writer, styled bool) error {
	render, err := tui.NewRenderer(styled)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := render(reference)
	if err != nil {
		return fmt.Errorf("failed to render reference: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
