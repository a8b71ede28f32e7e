package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/cytsaiap-xyz/skills-manager/internal/install"
	"github.com/cytsaiap-xyz/skills-manager/internal/model"
	"github.com/cytsaiap-xyz/skills-manager/internal/parser"
	"github.com/cytsaiap-xyz/skills-manager/internal/search"
	"github.com/cytsaiap-xyz/skills-manager/internal/ui"
)

// InstallFunc copies the skill with the given id to dest and returns the
// directory it was installed to.
type InstallFunc func(id string, dest model.Destination) (string, error)

// ContentFunc returns the raw descriptor text of a skill.
type ContentFunc func(id string) (string, error)

// BrowseOptions configures the browse view.
type BrowseOptions struct {
	// Status marks which skills are already installed.
	Status install.StatusMap
	// ProjectPath enables project installs when set.
	ProjectPath string
	// Install runs installs started from the view. Without it the install
	// keys are disabled.
	Install InstallFunc
	// Content loads the descriptor shown in the detail view. Without it the
	// detail view shows metadata only.
	Content ContentFunc
}

// BrowseResult summarizes what happened during a browse session.
type BrowseResult struct {
	// Installed counts successful installs.
	Installed int
}

type browseKeyMap struct {
	Up             key.Binding
	Down           key.Binding
	Detail         key.Binding
	NextCategory   key.Binding
	PrevCategory   key.Binding
	InstallGlobal  key.Binding
	InstallProject key.Binding
	Filter         key.Binding
	ClearFlt       key.Binding
	Help           key.Binding
	Back           key.Binding
	Quit           key.Binding
}

func defaultBrowseKeyMap() browseKeyMap {
	return browseKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter", "v"),
			key.WithHelp("enter/v", "details"),
		),
		NextCategory: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next category"),
		),
		PrevCategory: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous category"),
		),
		InstallGlobal: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "install globally"),
		),
		InstallProject: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "install to project"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		ClearFlt: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "esc"),
			key.WithHelp("b/esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// installDoneMsg reports the outcome of an install started from the view.
type installDoneMsg struct {
	skillID string
	dest    model.Destination
	path    string
	err     error
}

// BrowseModel is the BubbleTea model for browsing and installing skills.
type BrowseModel struct {
	table        table.Model
	skills       []model.Skill
	filtered     []model.Skill
	categories   []string
	categoryIdx  int
	opts         BrowseOptions
	status       install.StatusMap
	keys         browseKeyMap
	result       BrowseResult
	message      string
	messageErr   bool
	installing   bool
	filter       string
	filtering    bool
	showHelp     bool
	width        int
	height       int
	columnWidths browseColumnWidths
	phase        browsePhase
	detailSkill  model.Skill
	viewport     viewport.Model
	ready        bool
	quitting     bool
}

var browseStyles = struct {
	Title       lipgloss.Style
	Help        lipgloss.Style
	Filter      lipgloss.Style
	FilterInput lipgloss.Style
	Category    lipgloss.Style
	Status      lipgloss.Style
	DetailBox   lipgloss.Style
	DetailTitle lipgloss.Style
}{
	Title:       Styles.Title.Padding(0, 1),
	Help:        Styles.Muted,
	Filter:      lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	FilterInput: lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
	Category:    lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
	Status:      Styles.Muted.Padding(0, 1),
	DetailBox:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	DetailTitle: Styles.Title,
}

type browsePhase int

const (
	browsePhaseList browsePhase = iota
	browsePhaseDetail
)

const (
	browseInstalledWidth = 9
	browseNameWidth      = 25
	browseCategoryWidth  = 16
	browseDescWidth      = 45
	browseColumnPadding  = 2
	browseColumnCount    = 4
	browseDetailLines    = 3
	browseDetailGap      = 1
	browseDetailHeight   = browseDetailLines + 1 + 2 // title + content + border
)

type browseColumnWidths struct {
	installed int
	name      int
	category  int
	desc      int
}

// NewBrowseModel creates a browse model over the catalog.
func NewBrowseModel(cat model.Catalog, opts BrowseOptions) BrowseModel {
	skills := slices.Clone(cat.Skills)
	slices.SortStableFunc(skills, func(a, b model.Skill) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	status := opts.Status
	if status == nil {
		status = install.StatusMap{}
	}

	columns, columnWidths := browseColumns(0, skills)
	m := BrowseModel{
		skills:       skills,
		filtered:     skills,
		categories:   append([]string{search.AllCategories}, cat.Categories...),
		opts:         opts,
		status:       status,
		keys:         defaultBrowseKeyMap(),
		columnWidths: columnWidths,
		phase:        browsePhaseList,
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(m.skillsToRows(skills)),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m.table = t
	return m
}

func (m BrowseModel) skillsToRows(skills []model.Skill) []table.Row {
	rows := make([]table.Row, len(skills))
	for i, s := range skills {
		rows[i] = table.Row{
			m.status[s.ID].Marker(),
			truncateText(s.Name, m.columnWidths.name),
			truncateText(search.CategoryIcon(s.Category)+" "+s.Category, m.columnWidths.category),
			truncateText(s.Description, m.columnWidths.desc),
		}
	}
	return rows
}

func browseColumns(totalWidth int, skills []model.Skill) ([]table.Column, browseColumnWidths) {
	widths := browseColumnWidths{
		installed: browseInstalledWidth,
		name:      browseNameWidth,
		category:  browseCategoryWidth,
		desc:      browseDescWidth,
	}

	if totalWidth > 0 {
		baseTotal := widths.installed + widths.name + widths.category + widths.desc +
			(browseColumnPadding * browseColumnCount)
		extra := totalWidth - baseTotal
		if extra > 0 {
			maxCategoryWidth := widths.category
			for _, s := range skills {
				w := runewidth.StringWidth(search.CategoryIcon(s.Category) + " " + s.Category)
				maxCategoryWidth = max(maxCategoryWidth, w)
			}

			if needed := maxCategoryWidth - widths.category; needed > 0 {
				grow := min(needed, extra)
				widths.category += grow
				extra -= grow
			}

			nameExtra := extra / 3
			widths.name += nameExtra
			widths.desc += extra - nameExtra
		}
	}

	columns := []table.Column{
		{Title: "Installed", Width: widths.installed},
		{Title: "Name", Width: widths.name},
		{Title: "Category", Width: widths.category},
		{Title: "Description", Width: widths.desc},
	}
	return columns, widths
}

func (m *BrowseModel) updateColumns(totalWidth int) {
	columns, widths := browseColumns(totalWidth, m.skills)
	m.columnWidths = widths
	m.table.SetColumns(columns)
}

func (m BrowseModel) detailPanelWidth() int {
	if m.width > 0 {
		return m.width
	}
	return m.columnWidths.installed + m.columnWidths.name + m.columnWidths.category + m.columnWidths.desc +
		(browseColumnPadding * browseColumnCount)
}

func (m BrowseModel) renderDetailPanel() string {
	width := m.detailPanelWidth()
	contentWidth := max(width-4, 10)

	skill := m.getSelectedSkill()
	description := strings.TrimSpace(skill.Description)
	if description == "" {
		description = model.DefaultDescription
	}

	lines := padLines(wrapText(description, contentWidth, browseDetailLines), browseDetailLines)
	header := browseStyles.DetailTitle.Render("Description (selected)")
	content := append([]string{header}, lines...)

	return browseStyles.DetailBox.Width(width).Render(strings.Join(content, "\n"))
}

// Init implements tea.Model.
func (m BrowseModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if done, ok := msg.(installDoneMsg); ok {
		m.finishInstall(done)
		return m, nil
	}

	switch m.phase {
	case browsePhaseDetail:
		return m.updateDetail(msg)
	default:
		return m.updateList(msg)
	}
}

func (m BrowseModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Reserve space for title, category line, status, help, and detail panel.
		m.table.SetHeight(max(msg.Height-12-browseDetailHeight-browseDetailGap, 5))
		m.updateColumns(msg.Width)
		m.table.SetRows(m.skillsToRows(m.filtered))

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg), nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Filter):
			m.filtering = true
			return m, nil

		case key.Matches(msg, m.keys.ClearFlt):
			m.filter = ""
			m.applyFilter()
			return m, nil

		case key.Matches(msg, m.keys.NextCategory):
			m.categoryIdx = (m.categoryIdx + 1) % len(m.categories)
			m.applyFilter()
			return m, nil

		case key.Matches(msg, m.keys.PrevCategory):
			m.categoryIdx = (m.categoryIdx + len(m.categories) - 1) % len(m.categories)
			m.applyFilter()
			return m, nil

		case key.Matches(msg, m.keys.Detail):
			if len(m.filtered) > 0 {
				m.detailSkill = m.getSelectedSkill()
				m.phase = browsePhaseDetail
				m.ready = false
				m.ensureDetailViewport()
			}
			return m, nil

		case key.Matches(msg, m.keys.InstallGlobal):
			return m.startInstall(m.getSelectedSkill(), model.DestinationGlobal)

		case key.Matches(msg, m.keys.InstallProject):
			return m.startInstall(m.getSelectedSkill(), model.DestinationProject)
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m BrowseModel) updateFilter(msg tea.KeyMsg) BrowseModel {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
	case tea.KeyEsc:
		m.filter = ""
		m.filtering = false
		m.applyFilter()
	case tea.KeyBackspace:
		if m.filter != "" {
			runes := []rune(m.filter)
			m.filter = string(runes[:len(runes)-1])
			m.applyFilter()
		}
	case tea.KeySpace:
		m.filter += " "
		m.applyFilter()
	case tea.KeyRunes:
		m.filter += string(msg.Runes)
		m.applyFilter()
	}
	return m
}

func (m BrowseModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureDetailViewport()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Back):
			m.phase = browsePhaseList
			return m, nil

		case key.Matches(msg, m.keys.InstallGlobal):
			return m.startInstall(m.detailSkill, model.DestinationGlobal)

		case key.Matches(msg, m.keys.InstallProject):
			return m.startInstall(m.detailSkill, model.DestinationProject)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// startInstall returns a command running the install off the UI loop.
func (m BrowseModel) startInstall(skill model.Skill, dest model.Destination) (tea.Model, tea.Cmd) {
	switch {
	case skill.ID == "":
		return m, nil
	case m.opts.Install == nil:
		m.setMessage("Installing is not available here", true)
		return m, nil
	case m.installing:
		m.setMessage("An install is already running", true)
		return m, nil
	case dest == model.DestinationProject && m.opts.ProjectPath == "":
		m.setMessage("No project path set; restart with --project to install to a project", true)
		return m, nil
	}

	m.installing = true
	m.setMessage(fmt.Sprintf("Installing %s to %s...", skill.ID, dest), false)

	fn := m.opts.Install
	id := skill.ID
	return m, func() tea.Msg {
		path, err := fn(id, dest)
		return installDoneMsg{skillID: id, dest: dest, path: path, err: err}
	}
}

func (m *BrowseModel) finishInstall(done installDoneMsg) {
	m.installing = false
	if done.err != nil {
		m.setMessage(fmt.Sprintf("Install of %s failed: %v", done.skillID, done.err), true)
		return
	}

	m.status.Set(done.skillID, done.dest)
	m.result.Installed++
	m.setMessage(fmt.Sprintf("Skill %q copied to %s", done.skillID, done.path), false)
	m.table.SetRows(m.skillsToRows(m.filtered))
	if m.phase == browsePhaseDetail && m.ready {
		m.viewport.SetContent(m.buildDetailContent(m.viewport.Width))
	}
}

func (m *BrowseModel) setMessage(msg string, isErr bool) {
	m.message = msg
	m.messageErr = isErr
}

func (m BrowseModel) category() string {
	return m.categories[m.categoryIdx]
}

func (m *BrowseModel) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter))
	category := m.category()

	filtered := make([]model.Skill, 0, len(m.skills))
	for _, s := range m.skills {
		if search.InCategory(s, category) && search.Matches(s, query) {
			filtered = append(filtered, s)
		}
	}
	m.filtered = filtered

	m.table.SetRows(m.skillsToRows(m.filtered))
	if m.table.Cursor() >= len(m.filtered) {
		m.table.SetCursor(max(len(m.filtered)-1, 0))
	}
}

func (m BrowseModel) getSelectedSkill() model.Skill {
	cursor := m.table.Cursor()
	if cursor >= 0 && cursor < len(m.filtered) {
		return m.filtered[cursor]
	}
	return model.Skill{}
}

// View implements tea.Model.
func (m BrowseModel) View() string {
	if m.quitting {
		return ""
	}

	if m.phase == browsePhaseDetail {
		return m.viewDetail()
	}

	var b strings.Builder

	b.WriteString(browseStyles.Title.Render("📚 Skills Manager"))
	b.WriteString("\n\n")

	category := m.category()
	b.WriteString(browseStyles.Filter.Render("Category: "))
	if category == search.AllCategories {
		b.WriteString(browseStyles.Category.Render("All"))
	} else {
		b.WriteString(browseStyles.Category.Render(search.CategoryIcon(category) + " " + category))
	}
	b.WriteString("\n")

	if m.filter != "" || m.filtering {
		filterVal := browseStyles.FilterInput.Render(m.filter)
		if m.filtering {
			filterVal += "█"
		}
		b.WriteString(browseStyles.Filter.Render("Filter: ") + filterVal + "\n")
	}
	b.WriteString("\n")

	b.WriteString(m.table.View())
	b.WriteString("\n")

	b.WriteString(m.renderDetailPanel())
	b.WriteString("\n")

	status := fmt.Sprintf("%d skill(s)", len(m.filtered))
	if len(m.filtered) != len(m.skills) {
		status = fmt.Sprintf("%d of %d skill(s) (filtered)", len(m.filtered), len(m.skills))
	}
	b.WriteString(browseStyles.Status.Render(status))
	b.WriteString("\n")
	b.WriteString(m.renderMessage())

	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.renderFullHelp())
	} else {
		b.WriteString(m.renderShortHelp())
	}

	return b.String()
}

func (m BrowseModel) renderMessage() string {
	if m.message == "" {
		return ""
	}
	if m.messageErr {
		return Styles.Error.Render(m.message) + "\n"
	}
	return Styles.Success.Render(m.message) + "\n"
}

func (m BrowseModel) viewDetail() string {
	m.ensureDetailViewport()
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(browseStyles.Title.Render(fmt.Sprintf("📚 Skill Details: %s", m.detailSkill.Name)))
	b.WriteString("\n\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	scrollPercent := int(m.viewport.ScrollPercent() * 100)
	status := fmt.Sprintf("Scroll: %d%% • Press b or Esc to go back", scrollPercent)
	b.WriteString(browseStyles.Status.Render(status))
	b.WriteString("\n")
	b.WriteString(m.renderMessage())

	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.renderDetailHelp())
	} else {
		keys := []string{
			"↑/↓ scroll",
			"i install",
			"p project",
			"b back",
			"? help",
			"q quit",
		}
		b.WriteString(browseStyles.Help.Render(strings.Join(keys, " • ")))
	}

	return b.String()
}

func (m *BrowseModel) ensureDetailViewport() {
	if m.width <= 0 || m.height <= 0 {
		return
	}

	headerHeight := 4
	footerHeight := 5
	viewportHeight := max(m.height-headerHeight-footerHeight, 5)

	if !m.ready {
		m.viewport = viewport.New(m.width-2, viewportHeight)
		m.viewport.SetContent(m.buildDetailContent(m.viewport.Width))
		m.ready = true
		return
	}

	m.viewport.Width = m.width - 2
	m.viewport.Height = viewportHeight
	m.viewport.SetContent(m.buildDetailContent(m.viewport.Width))
}

func (m BrowseModel) buildDetailContent(width int) string {
	skill := m.detailSkill
	if skill.ID == "" {
		return "No skill selected."
	}

	var b strings.Builder
	wrappedWidth := max(width, 10)
	indent := "  "

	b.WriteString(browseStyles.DetailTitle.Render("Skill"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%sName: %s\n", indent, skill.Name)
	fmt.Fprintf(&b, "%sID: %s\n", indent, skill.ID)
	fmt.Fprintf(&b, "%sCategory: %s %s\n", indent, search.CategoryIcon(skill.Category), skill.Category)
	if len(skill.Tags) > 0 {
		fmt.Fprintf(&b, "%sTags: %s\n", indent, strings.Join(skill.Tags, ", "))
	}
	fmt.Fprintf(&b, "%sPath: %s\n", indent, skill.Path)
	fmt.Fprintf(&b, "%sInstalled: %s\n", indent, installedLabel(m.status[skill.ID]))

	b.WriteString("\n")
	b.WriteString(browseStyles.DetailTitle.Render("Description"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(wrappedWidth).Render(skill.Description))
	b.WriteString("\n")

	if m.opts.Content != nil {
		b.WriteString("\n")
		content, err := m.opts.Content(skill.ID)
		switch {
		case err != nil:
			b.WriteString(Styles.Error.Render(fmt.Sprintf("Could not read %s: %v", model.DescriptorFile, err)))
			b.WriteString("\n")
		case content == "":
			b.WriteString(Styles.Muted.Render(fmt.Sprintf("No %s in this skill.", model.DescriptorFile)))
			b.WriteString("\n")
		default:
			b.WriteString(ui.RenderMarkdown(parser.Body(content), wrappedWidth))
		}
	}

	return b.String()
}

func installedLabel(st install.State) string {
	switch {
	case st.Global && st.Project:
		return "global, project"
	case st.Global:
		return "global"
	case st.Project:
		return "project"
	default:
		return "no"
	}
}

func (m BrowseModel) renderShortHelp() string {
	keys := []string{
		"↑/↓ navigate",
		"enter details",
		"tab category",
		"i install",
		"p project",
		"/ filter",
		"? help",
		"q quit",
	}
	return browseStyles.Help.Render(strings.Join(keys, " • "))
}

func (m BrowseModel) renderFullHelp() string {
	help := `Navigation:
  ↑/k        Move up
  ↓/j        Move down
  g/Home     Go to top
  G/End      Go to bottom

Actions:
  Enter/v    View details
  i          Install to the global skills directory
  p          Install to the project skills directory

Filter:
  /          Start filtering (by name, description, category, id, or tag)
  Esc        Clear filter
  Enter      Finish filtering
  Tab        Next category
  Shift+Tab  Previous category

General:
  ?          Toggle full help
  q          Quit`
	return browseStyles.Help.Render(help)
}

func (m BrowseModel) renderDetailHelp() string {
	help := `Navigation:
  ↑/k      Scroll up
  ↓/j      Scroll down

Actions:
  i        Install to the global skills directory
  p        Install to the project skills directory
  b/Esc    Back to list

General:
  ?        Toggle full help
  q        Quit`
	return browseStyles.Help.Render(help)
}

// Result returns the result of the user interaction.
func (m BrowseModel) Result() BrowseResult {
	return m.result
}

// RunBrowse runs the interactive browser until the user quits.
func RunBrowse(cat model.Catalog, opts BrowseOptions) (BrowseResult, error) {
	if len(cat.Skills) == 0 {
		return BrowseResult{}, nil
	}

	finalModel, err := Run(NewBrowseModel(cat, opts), tea.WithAltScreen())
	if err != nil {
		return BrowseResult{}, err
	}

	if m, ok := finalModel.(BrowseModel); ok {
		return m.Result(), nil
	}
	return BrowseResult{}, nil
}
