package linsys

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// WriteLP writes the model as CPLEX LP text. Conditional rows use the
// LP indicator syntax (bin = 1 -> constraint). Ranged rows are emitted
// as a pair of inequalities. The export is a debugging aid; it is not
// read back by this package.
func (m *Model) WriteLP(w io.Writer) error {
	bw := bufio.NewWriter(w)

	name := m.Name
	if name == "" {
		name = "model"
	}
	fmt.Fprintf(bw, "\\ Problem: %s\n", name)
	if m.Maximize {
		fmt.Fprintln(bw, "Maximize")
	} else {
		fmt.Fprintln(bw, "Minimize")
	}
	fmt.Fprintf(bw, " obj:%s\n", lpExpr(m.ColCosts, m))

	fmt.Fprintln(bw, "Subject To")
	cond := make(map[int]int, len(m.CondRows)) // row -> controlling binary
	for _, c := range m.CondRows {
		cond[c.Row] = c.Bin
	}
	for row := 0; row < m.NumRows(); row++ {
		coeffs := m.RowCoeffs(row)
		expr := lpExpr(coeffs, m)
		if expr == "" {
			continue
		}
		rname := m.rowName(row)
		prefix := ""
		if bin, ok := cond[row]; ok {
			prefix = fmt.Sprintf("%s = 1 -> ", m.colName(bin))
		}
		lb, ub := m.RowLower[row], m.RowUpper[row]
		switch {
		case lb == ub:
			fmt.Fprintf(bw, " %s: %s%s = %g\n", rname, prefix, strings.TrimSpace(expr), lb)
		case !math.IsInf(lb, -1) && !math.IsInf(ub, 1):
			fmt.Fprintf(bw, " %s_lo: %s%s >= %g\n", rname, prefix, strings.TrimSpace(expr), lb)
			fmt.Fprintf(bw, " %s_up: %s%s <= %g\n", rname, prefix, strings.TrimSpace(expr), ub)
		case !math.IsInf(lb, -1):
			fmt.Fprintf(bw, " %s: %s%s >= %g\n", rname, prefix, strings.TrimSpace(expr), lb)
		case !math.IsInf(ub, 1):
			fmt.Fprintf(bw, " %s: %s%s <= %g\n", rname, prefix, strings.TrimSpace(expr), ub)
		}
	}

	fmt.Fprintln(bw, "Bounds")
	for col := 0; col < m.NumVars(); col++ {
		lb, ub := m.ColLower[col], m.ColUpper[col]
		cname := m.colName(col)
		switch {
		case math.IsInf(lb, -1) && math.IsInf(ub, 1):
			fmt.Fprintf(bw, " %s free\n", cname)
		case math.IsInf(ub, 1):
			fmt.Fprintf(bw, " %s >= %g\n", cname, lb)
		case math.IsInf(lb, -1):
			fmt.Fprintf(bw, " %s <= %g\n", cname, ub)
		default:
			fmt.Fprintf(bw, " %g <= %s <= %g\n", lb, cname, ub)
		}
	}

	var binaries, integers []string
	for col, vt := range m.VarTypes {
		switch vt {
		case VarBinary:
			binaries = append(binaries, m.colName(col))
		case VarInteger:
			integers = append(integers, m.colName(col))
		}
	}
	if len(binaries) > 0 {
		fmt.Fprintln(bw, "Binaries")
		fmt.Fprintf(bw, " %s\n", strings.Join(binaries, " "))
	}
	if len(integers) > 0 {
		fmt.Fprintln(bw, "Generals")
		fmt.Fprintf(bw, " %s\n", strings.Join(integers, " "))
	}

	fmt.Fprintln(bw, "End")
	return bw.Flush()
}

// WriteLPFile writes the model as CPLEX LP text to the given path.
func (m *Model) WriteLPFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.WriteLP(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (m *Model) colName(col int) string {
	if col < len(m.ColNames) && m.ColNames[col] != "" {
		return sanitizeLP(m.ColNames[col])
	}
	return fmt.Sprintf("x%d", col)
}

func (m *Model) rowName(row int) string {
	if row < len(m.RowNames) && m.RowNames[row] != "" {
		return sanitizeLP(m.RowNames[row])
	}
	return fmt.Sprintf("r%d", row)
}

func lpExpr(coeffs []float64, m *Model) string {
	var b strings.Builder
	for col, v := range coeffs {
		if v == 0 {
			continue
		}
		if v >= 0 {
			fmt.Fprintf(&b, " + %g %s", v, m.colName(col))
		} else {
			fmt.Fprintf(&b, " - %g %s", -v, m.colName(col))
		}
	}
	return b.String()
}

// sanitizeLP replaces characters the LP format rejects in names.
func sanitizeLP(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}
