package types

type NavbarData struct {
	WalletConnected bool
	Wallet          string
	WalletShort     string
}

type NavbarDataSetter interface {
	SetNavbarData(data NavbarData)
}

type BasePageData struct {
	Title  string
	Navbar NavbarData
	Notice string
	Error  string
}

func (d *BasePageData) SetNavbarData(data NavbarData) {
	d.Navbar = data
}

type FeatureData struct {
	Title       string
	Description string
}

type StepData struct {
	Number      int
	Title       string
	Description string
}

type HomePageData struct {
	BasePageData
	Features   []FeatureData
	Steps      []StepData
	Categories []Category
}

type ConnectPageData struct {
	BasePageData
	Wallet string
}

type DashboardTab struct {
	Label  string
	Href   string
	Active bool
}

type DashboardPageData struct {
	BasePageData
	Tabs []DashboardTab
}

type SubmitPageData struct {
	DashboardPageData
	Categories []Category
	Form       SubmissionForm
	Preview    string
	Submitted  *Submission
}

type MyDataPageData struct {
	DashboardPageData
	Categories  []Category
	Submissions []Submission
	Category    string
	Search      string
	HasAny      bool
}

type SelectOption struct {
	Value    string
	Label    string
	Selected bool
}

type ValidatedPageData struct {
	DashboardPageData
	Submissions []Submission
	CodeTypes   []SelectOption

	// Set after a code generation request
	GeneratedCode string
	CodeTypeLabel string
	CodeFilename  string
	CodeNodeCount int
	SelectedNodes map[string]bool
}

type RewardsPageData struct {
	DashboardPageData
	Summary     RewardSummary
	Submissions []Submission
}
