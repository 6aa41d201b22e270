package visualization

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Feature is one pro or con of a container kind.
type Feature struct {
	Good  bool   `json:"good"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

// Container describes one side of the static vs dynamic comparison.
type Container struct {
	Name     string    `json:"name"`
	Decl     string    `json:"decl"`
	Features []Feature `json:"features"`
	Example  []string  `json:"example"`
}

// ComparisonData is the static array vs std::vector reference material.
type ComparisonData struct {
	Intro   string     `json:"intro"`
	Static  Container  `json:"static"`
	Dynamic Container  `json:"dynamic"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Compare returns the comparison reference material.
func Compare() ComparisonData {
	return ComparisonData{
		Intro: "C++ offers raw arrays and STL containers. Knowing the difference matters for efficient, safe code.",
		Static: Container{
			Name: "Static array (C-style)",
			Decl: "int arr[10];",
			Features: []Feature{
				{false, "Fixed size", "Size is fixed at compile time and cannot change at runtime."},
				{false, "Manual memory management", "Memory from new must be deleted by hand or it leaks."},
				{false, "Low safety", "No bounds checking; out-of-range access can crash the program."},
				{true, "High performance", "No overhead; direct memory access is very fast."},
			},
			Example: []string{
				"int arr[5] = {1, 2, 3, 4, 5};",
				"// arr[5] = 6; // undefined behavior!",
			},
		},
		Dynamic: Container{
			Name: "Dynamic array (STL vector)",
			Decl: "std::vector<int>",
			Features: []Feature{
				{true, "Dynamic size", "Grows automatically. Add elements freely with push_back()."},
				{true, "Automatic memory management", "Follows RAII; memory is released when it leaves scope."},
				{true, "Rich interface", "size(), empty(), insert(), clear() and many more member functions."},
				{true, "Safe access", "at() checks bounds and throws instead of crashing."},
			},
			Example: []string{
				"vector<int> v = {1, 2, 3};",
				"v.push_back(4); // OK, grows automatically",
			},
		},
		Headers: []string{"Feature", "Static array", "std::vector"},
		Rows: [][]string{
			{"Declaration", "int a[10];", "vector<int> v(10);"},
			{"Length", "sizeof(a)/sizeof(a[0])", "v.size()"},
			{"Add element", "not supported (shift by hand)", "v.push_back(val)"},
			{"Clear", "assign in a loop", "v.clear()"},
		},
	}
}

// Comparison renders the comparison view for a terminal.
func Comparison() string {
	data := Compare()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Static vs Dynamic") + "\n")
	b.WriteString(dimStyle.Render(data.Intro) + "\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		containerCard(data.Static), " ", containerCard(data.Dynamic)) + "\n")

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(data.Headers...).
		Rows(data.Rows...)
	b.WriteString(t.String() + "\n")
	return b.String()
}

var declStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))

func containerCard(c Container) string {
	lines := []string{titleStyle.Render(c.Name), declStyle.Render(c.Decl), ""}
	for _, f := range c.Features {
		mark := warnStyle.Render("x")
		if f.Good {
			mark = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("v")
		}
		lines = append(lines, mark+" "+f.Title, "  "+dimStyle.Render(f.Desc))
	}
	lines = append(lines, "")
	lines = append(lines, c.Example...)
	return statStyle.Width(52).Render(strings.Join(lines, "\n"))
}
