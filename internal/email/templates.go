package email

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/eyuppastirmaci/agenda-pulse/internal/models"
)

// Template names, one per notification category.
const (
	TemplateTaskNotification     = "task-notification"
	TemplateCalendarNotification = "calendar-notification"
)

// TemplateData is the rendering context for notification emails.
type TemplateData struct {
	Title   string
	Message string
	Type    models.NotificationType
}

// TemplateManager holds the parsed notification email templates. Templates
// are loaded from the configured directory when present, with built-in
// versions as fallback.
type TemplateManager struct {
	templates map[string]*template.Template
}

func NewTemplateManager(templatesDir string) (*TemplateManager, error) {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}

	for _, name := range []string{TemplateTaskNotification, TemplateCalendarNotification} {
		tpl, err := loadTemplate(templatesDir, name)
		if err != nil {
			return nil, fmt.Errorf("failed to load template %s: %w", name, err)
		}
		tm.templates[name] = tpl
	}

	return tm, nil
}

func loadTemplate(dir, name string) (*template.Template, error) {
	if dir != "" {
		if tpl, err := template.ParseFiles(filepath.Join(dir, name+".html")); err == nil {
			return tpl, nil
		}
	}
	return builtinTemplate(name)
}

func builtinTemplate(name string) (*template.Template, error) {
	var text string
	switch name {
	case TemplateTaskNotification:
		text = taskNotificationTemplate
	case TemplateCalendarNotification:
		text = calendarNotificationTemplate
	default:
		return nil, fmt.Errorf("unknown template: %s", name)
	}
	return template.New(name).Parse(text)
}

// TemplateFor resolves the template name for a notification type by
// category: task types render the task template, everything else the
// calendar one.
func TemplateFor(t models.NotificationType) string {
	if t.IsTaskType() {
		return TemplateTaskNotification
	}
	return TemplateCalendarNotification
}

// Render executes the named template with data.
func (tm *TemplateManager) Render(name string, data TemplateData) (string, error) {
	tpl, exists := tm.templates[name]
	if !exists {
		return "", fmt.Errorf("template not found: %s", name)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}

	return buf.String(), nil
}

const taskNotificationTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
</head>
<body style="font-family: Arial, sans-serif; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">{{.Title}}</h2>
        <p>{{.Message}}</p>
        <p style="color: #888; font-size: 12px;">Notification type: {{.Type}}</p>
        <hr style="border: none; border-top: 1px solid #eee;">
        <p style="color: #888; font-size: 12px;">You received this email because task notifications are enabled in your AgendaPulse preferences.</p>
    </div>
</body>
</html>`

const calendarNotificationTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
</head>
<body style="font-family: Arial, sans-serif; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #7c3aed;">{{.Title}}</h2>
        <p>{{.Message}}</p>
        <p style="color: #888; font-size: 12px;">Notification type: {{.Type}}</p>
        <hr style="border: none; border-top: 1px solid #eee;">
        <p style="color: #888; font-size: 12px;">You received this email because calendar notifications are enabled in your AgendaPulse preferences.</p>
    </div>
</body>
</html>`
