package ui

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastreer-gui/internal/backend"
	appErrors "fastreer-gui/internal/errors"
	"fastreer-gui/internal/update"
)

func TestSplitInputs(t *testing.T) {
	text := "  /data/a b.vcf \r\n\n/data/c.vcf\n   \n"
	assert.Equal(t, []string{"/data/a b.vcf", "/data/c.vcf"}, SplitInputs(text))
	assert.Empty(t, SplitInputs("\n \n"))
}

func TestJobFormValuesJob(t *testing.T) {
	job, err := JobFormValues{Mode: "fasta2dist", Inputs: "x.fa\ny.fa", Output: " out.tsv "}.Job()
	require.NoError(t, err)
	assert.Equal(t, backend.ModeFASTA2Dist, job.Mode)
	assert.Equal(t, []string{"x.fa", "y.fa"}, job.Inputs)
	assert.Equal(t, "out.tsv", job.Output)

	_, err = JobFormValues{Mode: "TREE"}.Job()
	assert.True(t, appErrors.IsCode(err, appErrors.CodeInvalidJob))
}

func TestFormValidators(t *testing.T) {
	assert.Error(t, validateInputs(" \n "))
	assert.NoError(t, validateInputs("a.vcf"))
	assert.Error(t, validateOutput("  "))
	assert.NoError(t, validateOutput("out"))
}

func TestModeOptions(t *testing.T) {
	opts := modeOptions()
	require.Len(t, opts, 3)
	assert.Equal(t, "VCF2DIST", opts[0].Value)
	assert.Equal(t, "DIST2TREE", opts[2].Key)
}

func TestNewJobFormDefaultsMode(t *testing.T) {
	values := JobFormValues{}
	assert.NotNil(t, NewJobForm(&values))
	assert.Equal(t, "VCF2DIST", values.Mode)
}

func testInfo() *update.UpdateInfo {
	current, _ := update.ParseVersion("1.0.0")
	latest, _ := update.ParseVersion("v1.1.0")
	return &update.UpdateInfo{
		CurrentVersion:  current,
		LatestVersion:   latest,
		UpdateAvailable: true,
		AssetName:       "fastreer-gui-1.0.0-jar-with-dependencies.jar",
		DownloadSize:    2_000_000,
		ReleaseNotes:    "Faster tree building.",
		PublishedAt:     time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestUpdatePrompt(t *testing.T) {
	assert.Equal(t, "A new version (1.1.0) is available.\nDownload and install it now?", UpdatePrompt(testInfo()))
}

func TestRenderUpdateInfo(t *testing.T) {
	out := RenderUpdateInfo(testInfo(), "plain", 80)
	assert.Contains(t, out, "fastreer-gui 1.0.0 -> 1.1.0")
	assert.Contains(t, out, "Released 2026-04-02")
	assert.Contains(t, out, "2.0 MB")
	assert.Contains(t, out, "Faster tree building.")
}

func TestUpdateConfirmerAssumeYes(t *testing.T) {
	var out bytes.Buffer
	c := UpdateConfirmer{Out: &out, NotesStyle: "plain", AssumeYes: true}
	ok, err := c.Confirm(context.Background(), testInfo())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Faster tree building.")
}

func TestFormError(t *testing.T) {
	assert.True(t, appErrors.IsCode(formError(context.Canceled), appErrors.CodeCanceled))
	other := assert.AnError
	assert.Equal(t, other, formError(other))
}
