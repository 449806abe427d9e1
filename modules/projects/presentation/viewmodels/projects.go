package viewmodels

type Option struct {
	Label    string
	Value    string
	Selected bool
}

type Field struct {
	ID        string
	Name      string
	Label     string
	Value     string
	InputType string
	Error     string
}

type FileSlot struct {
	Slot        string
	Key         string
	Label       string
	State       string
	FileName    string
	URL         string
	PreviewURL  string
	PreviewMime string
}

func (f FileSlot) IsImage() bool {
	return f.PreviewMime == "image/jpeg" || f.PreviewMime == "image/png"
}

type RoleSection struct {
	Role        string
	Label       string
	Mode        string
	Disabled    bool
	Placeholder bool
	ShowFields  bool
	Options     []Option
	SelectedID  string
	Fields      []Field
	Files       []FileSlot
	Focus       FocusOrder
	BaseURL     string
	SelectURL   string
}

func (s *RoleSection) DOMID() string {
	return "role-section-" + s.Role
}

type ProjectPage struct {
	SessionID string
	ProjectID string
	Title     string
	Disabled  bool
	Fields    []Field
	Statuses  []Option
	Sections  []*RoleSection
	FieldsURL string
	SubmitURL string
	ExportURL string
	Focus     FocusOrder
}

type OptionsResponse struct {
	Items []OptionItem `json:"items"`
}

type OptionItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
