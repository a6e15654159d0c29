package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconNotifyInfo  = "" // nf-fa-info_circle
	IconNotifyError = "" // nf-fa-times_circle
	IconBell        = "" // nf-fa-bell
	IconImage       = "" // nf-fa-image
	IconUser        = "" // nf-fa-user
)
