package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/protoplan/recipe"
)

// Browse opens an interactive, fuzzy-filtered view of the decoded
// recipes.
type Browse struct {
	Limit int `default:"10" help:"Max recipes listed at once." short:"n"`
}

// Styles.
var (
	browsePromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	browseItemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	browseSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("4"))
	browseLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	browseDetailStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Padding(0, 1)
	browseHintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

const browsePrompt = "filter ➜ "

// Run executes the browse command.
func (b *Browse) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	recipes, err := loadRecipes(ctx)
	if err != nil {
		return err
	}

	if len(recipes) == 0 {
		return ErrNoRecipes
	}

	m := newBrowseModel(recipes, b.Limit)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

// browseModel is the Bubble Tea model for the recipe browser.
type browseModel struct {
	input    textinput.Model
	recipes  []recipe.Recipe
	names    []string // recipe names, parallel to recipes
	matches  []int    // indices into recipes after filtering
	cursor   int      // selected position within matches
	limit    int      // visible list length
	quitting bool
}

func newBrowseModel(recipes []recipe.Recipe, limit int) browseModel {
	sort.Slice(recipes, func(i, j int) bool {
		return recipes[i].Name < recipes[j].Name
	})

	names := make([]string, len(recipes))
	for i, r := range recipes {
		names[i] = r.Name
	}

	ti := textinput.New()
	ti.Prompt = browsePromptStyle.Render(browsePrompt)
	ti.Focus()
	ti.CharLimit = 256

	if limit < 1 {
		limit = 1
	}

	m := browseModel{
		input:   ti,
		recipes: recipes,
		names:   names,
		limit:   limit,
	}
	m.matches = m.filter("")

	return m
}

// filter returns the recipe indices matching query, best match first.
// An empty query matches everything in name order.
func (m browseModel) filter(query string) []int {
	if strings.TrimSpace(query) == "" {
		all := make([]int, len(m.recipes))
		for i := range all {
			all[i] = i
		}

		return all
	}

	found := fuzzy.Find(query, m.names)

	matches := make([]int, len(found))
	for i, f := range found {
		matches[i] = f.Index
	}

	return matches
}

func (m browseModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.quitting = true

			return m, tea.Quit

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}

			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}

			return m, nil
		}
	}

	var cmd tea.Cmd

	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)

	if m.input.Value() != before {
		m.matches = m.filter(m.input.Value())
		m.cursor = 0
	}

	return m, cmd
}

func (m browseModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	// Keep the selection visible by sliding the window over matches.
	start := 0
	if m.cursor >= m.limit {
		start = m.cursor - m.limit + 1
	}

	end := min(start+m.limit, len(m.matches))

	for i := start; i < end; i++ {
		name := m.recipes[m.matches[i]].Name
		if i == m.cursor {
			b.WriteString(browseSelectedStyle.Render("▸ " + name))
		} else {
			b.WriteString(browseItemStyle.Render("  " + name))
		}

		b.WriteString("\n")
	}

	if len(m.matches) == 0 {
		b.WriteString(browseHintStyle.Render("no recipes match"))
		b.WriteString("\n")
	} else {
		b.WriteString(browseDetailStyle.Render(
			renderRecipeDetail(m.recipes[m.matches[m.cursor]]),
		))
		b.WriteString("\n")
	}

	b.WriteString(browseHintStyle.Render(
		"↑/↓ select · type to filter · esc quits",
	))
	b.WriteString("\n")

	return b.String()
}

func renderRecipeDetail(r recipe.Recipe) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", browsePromptStyle.Render(r.Name))
	fmt.Fprintf(&b, "%s %s · %s %v · %s %g/s\n",
		browseLabelStyle.Render("category"), r.Category,
		browseLabelStyle.Render("enabled"), r.Enabled,
		browseLabelStyle.Render("speed"), r.Speed,
	)

	b.WriteString(browseLabelStyle.Render("ingredients"))
	b.WriteString("\n")

	for _, ing := range r.Ingredients {
		fmt.Fprintf(&b, "  %d × %s (%s)\n", ing.Amount, ing.Name, ing.Type)
	}

	b.WriteString(browseLabelStyle.Render("results"))

	for _, out := range r.Results {
		fmt.Fprintf(&b, "\n  %d × %s (%s)", out.Amount, out.Name, out.Type)
	}

	return b.String()
}
