package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"

	"fastreer-gui/internal/backend"
	appErrors "fastreer-gui/internal/errors"
	"fastreer-gui/internal/update"
)

// JobFormValues holds the selections made in the job form.
type JobFormValues struct {
	Mode   string
	Inputs string
	Output string
}

// Job converts the form values into a backend job.
func (v JobFormValues) Job() (backend.Job, error) {
	mode, err := backend.ParseMode(v.Mode)
	if err != nil {
		return backend.Job{}, err
	}
	return backend.NewJob(mode, SplitInputs(v.Inputs), strings.TrimSpace(v.Output)), nil
}

// SplitInputs returns one path per non-blank line. Surrounding whitespace
// is trimmed but spaces inside a path are kept.
func SplitInputs(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if p := strings.TrimSpace(line); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func modeOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(backend.Modes()))
	for _, m := range backend.Modes() {
		opts = append(opts, huh.NewOption(string(m), string(m)))
	}
	return opts
}

func validateInputs(text string) error {
	if len(SplitInputs(text)) == 0 {
		return errors.New("no input files selected")
	}
	return nil
}

func validateOutput(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("no output file selected")
	}
	return nil
}

// NewJobForm builds the interactive form that fills values.
func NewJobForm(values *JobFormValues) *huh.Form {
	if values.Mode == "" {
		values.Mode = string(backend.ModeVCF2Dist)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Mode").
				Options(modeOptions()...).
				Value(&values.Mode),
			huh.NewText().
				Title("Input files").
				Description("One path per line").
				Value(&values.Inputs).
				Validate(validateInputs),
			huh.NewInput().
				Title("Output file").
				Value(&values.Output).
				Validate(validateOutput),
		),
	)
}

// RunJobForm shows the job form and returns the resulting job. Aborting
// the form returns a CodeCanceled error.
func RunJobForm(ctx context.Context, values JobFormValues, accessible bool) (backend.Job, error) {
	form := NewJobForm(&values).WithAccessible(accessible)
	if err := form.RunWithContext(ctx); err != nil {
		return backend.Job{}, formError(err)
	}
	return values.Job()
}

func formError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
		return appErrors.New(appErrors.CodeCanceled, "form aborted", err)
	}
	return err
}

// UpdatePrompt returns the confirmation question for info.
func UpdatePrompt(info *update.UpdateInfo) string {
	return fmt.Sprintf("A new version (%s) is available.\nDownload and install it now?", info.LatestVersion)
}

// UpdateConfirmer asks through a huh confirm, after printing the release
// notes to Out.
type UpdateConfirmer struct {
	Out        io.Writer
	Width      int
	NotesStyle string
	Accessible bool
	// AssumeYes skips the prompt.
	AssumeYes bool
}

// Confirm implements update.Confirmer.
func (c UpdateConfirmer) Confirm(ctx context.Context, info *update.UpdateInfo) (bool, error) {
	if c.Out != nil {
		_, _ = fmt.Fprintln(c.Out, RenderUpdateInfo(info, c.NotesStyle, c.Width))
	}
	if c.AssumeYes {
		return true, nil
	}

	ok := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Update Available").
				Description(UpdatePrompt(info)).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithAccessible(c.Accessible)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// RenderUpdateInfo describes an available update with its release notes.
func RenderUpdateInfo(info *update.UpdateInfo, notesStyle string, width int) string {
	var b strings.Builder
	b.WriteString(Title(fmt.Sprintf("fastreer-gui %s -> %s", info.CurrentVersion, info.LatestVersion)))
	b.WriteString("\n")
	if !info.PublishedAt.IsZero() {
		b.WriteString(Dim("Released " + info.PublishedAt.Format("2006-01-02")))
		b.WriteString("\n")
	}
	if info.DownloadSize > 0 {
		b.WriteString(Dim(fmt.Sprintf("Download: %s (%s)", info.AssetName, FormatTransfer(info.DownloadSize, 0))))
		b.WriteString("\n")
	}
	if notes := strings.TrimSpace(info.ReleaseNotes); notes != "" {
		b.WriteString("\n")
		b.WriteString(NewMarkdownRenderer(notesStyle, width)(notes))
		b.WriteString("\n")
	}
	return b.String()
}
