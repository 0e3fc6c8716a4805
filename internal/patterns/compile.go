package patterns

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// DefaultTimeout bounds a single regexp2 match.
const DefaultTimeout = 2 * time.Second

// Regexp is a compiled pattern whose capture groups are numbered left to
// right by opening parenthesis, named or not. regexp2 numbers named groups
// after all unnamed ones, so Group translates between the two.
type Regexp struct {
	*regexp2.Regexp

	// order[i] is the regexp2 group number of group i+1.
	order []int
}

// Compile parses source with regexp2. A zero timeout means DefaultTimeout.
func Compile(source string, timeout time.Duration) (*Regexp, error) {
	expr := translate(source)
	re, err := regexp2.Compile(expr, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", source, err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	re.MatchTimeout = timeout
	return &Regexp{Regexp: re, order: groupOrder(re, expr)}, nil
}

// Groups is the number of capture groups, not counting group 0.
func (re *Regexp) Groups() int {
	if re == nil {
		return 0
	}
	return len(re.order)
}

// Group returns capture group n (1-based, left-to-right numbering) of m,
// or nil when the group did not participate.
func (re *Regexp) Group(m *regexp2.Match, n int) *regexp2.Group {
	if m == nil || n < 1 || n > len(re.order) {
		return nil
	}
	g := m.GroupByNumber(re.order[n-1])
	if g == nil || len(g.Captures) == 0 {
		return nil
	}
	return g
}

// groupOrder maps left-to-right group positions in expr to regexp2's
// numbers. If the scan disagrees with regexp2 about how many groups exist,
// regexp2's own order is used.
func groupOrder(re *regexp2.Regexp, expr string) []int {
	numbers := re.GetGroupNumbers()[1:]
	names := captureNames(expr)
	if len(names) != len(numbers) {
		return numbers
	}
	order := make([]int, 0, len(names))
	unnamed := 0
	for _, name := range names {
		if name == "" {
			unnamed++
			order = append(order, unnamed)
			continue
		}
		n := re.GroupNumberFromName(name)
		if n < 0 {
			return numbers
		}
		order = append(order, n)
	}
	return order
}

// captureNames lists the capture groups of a translated expression in the
// order their opening parentheses appear. Unnamed groups are "".
func captureNames(expr string) []string {
	var names []string
	inClass := false
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch {
		case c == '\\':
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
			// a ] right after [ or [^ is a literal
			if i+1 < len(expr) && expr[i+1] == '^' {
				i++
			}
			if i+1 < len(expr) && expr[i+1] == ']' {
				i++
			}
		case c != '(':
		case !strings.HasPrefix(expr[i:], "(?"):
			names = append(names, "")
		case strings.HasPrefix(expr[i:], "(?#"):
			end := strings.IndexByte(expr[i:], ')')
			if end < 0 {
				return names
			}
			i += end
		case strings.HasPrefix(expr[i:], "(?<=") || strings.HasPrefix(expr[i:], "(?<!"):
		case strings.HasPrefix(expr[i:], "(?<") || strings.HasPrefix(expr[i:], "(?'"):
			delim := byte('>')
			if expr[i+2] == '\'' {
				delim = '\''
			}
			end := strings.IndexByte(expr[i+3:], delim)
			if end < 0 {
				return names
			}
			names = append(names, expr[i+3:i+3+end])
		}
	}
	return names
}

// translate rewrites (?P<name>...) and (?P=name) into the forms regexp2
// understands. Escaped characters are copied through untouched.
func translate(source string) string {
	if !strings.Contains(source, "(?P") {
		return source
	}
	var b strings.Builder
	b.Grow(len(source))
	for i := 0; i < len(source); {
		switch {
		case source[i] == '\\' && i+1 < len(source):
			b.WriteString(source[i : i+2])
			i += 2
		case strings.HasPrefix(source[i:], "(?P<"):
			b.WriteString("(?<")
			i += len("(?P<")
		case strings.HasPrefix(source[i:], "(?P="):
			end := strings.IndexByte(source[i:], ')')
			if end < 0 {
				b.WriteString(source[i:])
				i = len(source)
				continue
			}
			b.WriteString(`\k<` + source[i+len("(?P="):i+end] + ">")
			i += end + 1
		default:
			b.WriteByte(source[i])
			i++
		}
	}
	return b.String()
}

// GroupCount is the number of capture groups in re, not counting group 0.
func GroupCount(re *Regexp) int {
	return re.Groups()
}

// Validate reports whether source compiles and how many capture groups it
// declares. An empty source is valid and has no groups.
func Validate(source string) (int, error) {
	re, err := Compile(source, 0)
	if err != nil {
		return 0, err
	}
	return GroupCount(re), nil
}
