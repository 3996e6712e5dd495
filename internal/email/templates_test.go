package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyuppastirmaci/agenda-pulse/internal/models"
)

func TestTemplateFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, TemplateTaskNotification, TemplateFor(models.NotificationTypeTaskCreated))
	assert.Equal(t, TemplateTaskNotification, TemplateFor(models.NotificationTypeTaskDueSoon))
	assert.Equal(t, TemplateCalendarNotification, TemplateFor(models.NotificationTypeCalendarEventReminder))
	assert.Equal(t, TemplateCalendarNotification, TemplateFor(models.NotificationTypeCalendarEventCancelled))
}

func TestTemplateManager_RenderBuiltins(t *testing.T) {
	t.Parallel()

	tm, err := NewTemplateManager("")
	require.NoError(t, err)

	for _, name := range []string{TemplateTaskNotification, TemplateCalendarNotification} {
		html, err := tm.Render(name, TemplateData{
			Title:   "Task Updated",
			Message: "Task 'Ship release' has been updated.",
			Type:    models.NotificationTypeTaskUpdated,
		})
		require.NoError(t, err, name)
		assert.Contains(t, html, "Task Updated")
		assert.Contains(t, html, "Task &#39;Ship release&#39; has been updated.")
	}
}

func TestTemplateManager_UnknownTemplate(t *testing.T) {
	t.Parallel()

	tm, err := NewTemplateManager("")
	require.NoError(t, err)

	_, err = tm.Render("no-such-template", TemplateData{})
	assert.Error(t, err)
}

func TestStaticResolver(t *testing.T) {
	t.Parallel()

	addr, err := StaticResolver{Address: "ops@agendapulse.io"}.EmailFor("u1")
	require.NoError(t, err)
	assert.Equal(t, "ops@agendapulse.io", addr)

	_, err = StaticResolver{}.EmailFor("u1")
	assert.Error(t, err)
}
