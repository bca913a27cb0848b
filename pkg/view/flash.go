package view

type FlashKind string

const (
	FlashInfo    FlashKind = "info"
	FlashSuccess FlashKind = "success"
	FlashWarning FlashKind = "warning"
	FlashError   FlashKind = "error"
)

// Flash is a one-shot notice carried across a redirect.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// Class is the CSS modifier of the notice box.
func (f Flash) Class() string {
	if f.Kind == "" {
		return "flash-" + string(FlashInfo)
	}
	return "flash-" + string(f.Kind)
}
