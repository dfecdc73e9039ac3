package docling

type TaskStatus string

const (
	TaskStatusStarted TaskStatus = "started"
	TaskStatusSuccess TaskStatus = "success"
)

type TaskResult struct {
	TaskID     string     `json:"task_id"`
	TaskStatus TaskStatus `json:"task_status"`

	Document *TaskDocument `json:"document"`
}

type TaskDocument struct {
	Filename string `json:"filename"`

	Markdown string `json:"md_content"`
	Json     string `json:"json_content"`
}

// Document is the subset of the docling JSON export the adapter reads

type Document struct {
	Pages map[string]Page `json:"pages"`

	Pictures []PictureItem `json:"pictures"`
}

type Page struct {
	PageNo int `json:"page_no"`
}

type PictureItem struct {
	Image ImageRef `json:"image"`

	Prov []Provenance `json:"prov"`
}

type ImageRef struct {
	URI string `json:"uri"`
}

type Provenance struct {
	PageNo int `json:"page_no"`
}
