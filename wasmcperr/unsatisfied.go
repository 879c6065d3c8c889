package wasmcperr

import (
	"fmt"
	"sort"
	"strings"
)

// UnsatisfiedImportsError reports, per spec.md 4.4.4 and I4, every non-host
// interface still unwired at encode time, grouped by component label. The
// encoder computes the label->interfaces map once, at Encode, from the
// imports each instance has not had set_argument'd, and returns this error
// as the cause of an EncodeFailed error.
type UnsatisfiedImportsError struct {
	// ByLabel maps component label (e.g. "transport", "terminal",
	// "component-2") to the non-host interface names it still needs.
	ByLabel map[string][]string
}

// NewUnsatisfiedImportsError builds the error from a label->interfaces map,
// skipping labels with no remaining entries.
func NewUnsatisfiedImportsError(byLabel map[string][]string) *UnsatisfiedImportsError {
	out := &UnsatisfiedImportsError{ByLabel: make(map[string][]string)}
	for label, ifaces := range byLabel {
		if len(ifaces) > 0 {
			out.ByLabel[label] = ifaces
		}
	}
	return out
}

// Empty reports whether there is nothing unsatisfied (I4 is then met).
func (e *UnsatisfiedImportsError) Empty() bool {
	return len(e.ByLabel) == 0
}

func (e *UnsatisfiedImportsError) Error() string {
	if e.Empty() {
		return "[graph] unsatisfied_imports: none"
	}

	labels := make([]string, 0, len(e.ByLabel))
	for label := range e.ByLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("unsatisfied imports on %d component(s):\n", len(labels)))
	for _, label := range labels {
		b.WriteString("\n  ")
		b.WriteString(label)
		b.WriteString(":\n")
		for _, iface := range e.ByLabel[label] {
			b.WriteString("    - ")
			b.WriteString(iface)
			b.WriteByte('\n')
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Is reports whether target is also an *UnsatisfiedImportsError.
func (e *UnsatisfiedImportsError) Is(target error) bool {
	_, ok := target.(*UnsatisfiedImportsError)
	return ok
}
