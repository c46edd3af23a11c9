package seeder

import (
	"context"

	templatecommands "taleforge/contexts/story-core/template-library/application/commands"
)

// LibrarySeeder registers generative outputs as new templates in the
// library so they can seed follow-on sessions.
type LibrarySeeder struct {
	Register templatecommands.RegisterTemplateUseCase
}

func (a LibrarySeeder) SeedTemplate(ctx context.Context, title string, genre string, text string) (string, error) {
	template, err := a.Register.Execute(ctx, templatecommands.RegisterTemplateCommand{
		Title: title,
		Genre: genre,
		Text:  text,
		Tags:  []string{"generated"},
	})
	if err != nil {
		return "", err
	}
	return template.TemplateID, nil
}
