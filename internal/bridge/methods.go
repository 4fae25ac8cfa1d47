package bridge

import "github.com/ethcocoders/techtonicml-desktop/internal/textops"

// methods is the registration table of everything the page may call.
func (b *Bridge) methods() []Method {
	return []Method{
		// Files
		{
			Name:        "open_file_dialog",
			Description: "Pick a file to open; data is the path or null if cancelled",
			Handler:     func(Args) Result { return b.OpenFileDialog() },
		},
		{
			Name:        "save_file_dialog",
			Description: "Pick a save location; data is the path or null if cancelled",
			Params:      []Param{{Name: "default_name", Type: TypeString, Optional: true}},
			Handler: func(a Args) Result {
				return b.SaveFileDialog(a.StringOr("default_name", DefaultSaveName))
			},
		},
		{
			Name:        "read_file",
			Description: "Read a UTF-8 text file",
			Params:      []Param{{Name: "path", Type: TypeString}},
			Handler:     func(a Args) Result { return b.ReadFile(a.String("path")) },
		},
		{
			Name:        "write_file",
			Description: "Overwrite a text file",
			Params: []Param{
				{Name: "path", Type: TypeString},
				{Name: "content", Type: TypeString},
			},
			Handler: func(a Args) Result { return b.WriteFile(a.String("path"), a.String("content")) },
		},
		{
			Name:        "get_current_file",
			Description: "Path of the last file read or written, or null",
			Handler: func(Args) Result {
				if p := b.CurrentFile(); p != "" {
					return OK(p)
				}
				return OK(nil)
			},
		},
		{
			Name:        "get_recent_files",
			Description: "Recently read or written files, newest first",
			Params:      []Param{{Name: "limit", Type: TypeNumber, Optional: true}},
			Handler:     func(a Args) Result { return b.RecentFiles(a.IntOr("limit", 10)) },
		},
		{
			Name:        "reveal_in_file_manager",
			Description: "Show a file in the system file manager",
			Params:      []Param{{Name: "path", Type: TypeString}},
			Handler:     func(a Args) Result { return b.RevealInFileManager(a.String("path")) },
		},

		// Settings
		{
			Name:        "save_settings",
			Description: "Replace the stored settings object",
			Params:      []Param{{Name: "settings", Type: TypeObject}},
			Handler:     func(a Args) Result { return b.SaveSettings(a.Object("settings")) },
		},
		{
			Name:        "load_settings",
			Description: "Stored settings, or the defaults",
			Handler:     func(Args) Result { return b.LoadSettings() },
		},

		// System
		{
			Name:        "get_system_info",
			Description: "Host platform details",
			Handler:     func(Args) Result { return b.GetSystemInfo() },
		},
		{
			Name:        "show_notification",
			Description: "Log a notification and echo it back as an event",
			Params: []Param{
				{Name: "title", Type: TypeString},
				{Name: "message", Type: TypeString},
			},
			Handler: func(a Args) Result { return b.ShowNotification(a.String("title"), a.String("message")) },
		},
		{
			Name:        "copy_to_clipboard",
			Description: "Put text on the clipboard",
			Params:      []Param{{Name: "text", Type: TypeString}},
			Handler:     func(a Args) Result { return b.CopyToClipboard(a.String("text")) },
		},
		{
			Name:        "read_clipboard",
			Description: "Clipboard text",
			Handler:     func(Args) Result { return b.ReadClipboard() },
		},
		{
			Name:        "open_external",
			Description: "Open an http(s) URL in the default browser",
			Params:      []Param{{Name: "url", Type: TypeString}},
			Handler:     func(a Args) Result { return b.OpenExternal(a.String("url")) },
		},

		// Application data
		{
			Name:        "get_app_info",
			Description: "Application name, version, author and description",
			Handler:     func(Args) Result { return b.GetAppInfo() },
		},
		{
			Name:        "get_welcome_message",
			Description: "Home page greeting",
			Handler:     func(Args) Result { return b.GetWelcomeMessage() },
		},
		{
			Name:        "process_text",
			Description: "Apply upper, lower, title, reverse or count to text",
			Params: []Param{
				{Name: "text", Type: TypeString},
				{Name: "operation", Type: TypeString, Optional: true},
			},
			Handler: func(a Args) Result {
				return b.ProcessText(a.String("text"), a.StringOr("operation", textops.Upper))
			},
		},
	}
}
