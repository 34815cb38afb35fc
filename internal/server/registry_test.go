package server

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testBundleYAML = `
info:
  id: lakers-wolves
  date: "2024-01-15"
home:
  id: LAL
  name: 湖人
  players:
    - name: 詹姆斯
    - name: 戴维斯
    - name: 里维斯
    - name: 拉塞尔
    - name: 八村塁
    - name: 文森特
  starters: [詹姆斯, 戴维斯, 里维斯, 拉塞尔, 八村塁]
away:
  id: MIN
  name: 森林狼
  players:
    - name: 爱德华兹
    - name: 戈贝尔
    - name: 康利
    - name: 兰德尔
    - name: 麦克丹尼尔斯
  starters: [爱德华兹, 戈贝尔, 康利, 兰德尔, 麦克丹尼尔斯]
transcript_file: lakers-wolves.txt
`

const testTranscript = "第1节开始\n" +
	"11:42\t詹姆斯 两分球 命中(2分)\t2-0\t\n" +
	"11:20\t\t2-0\t爱德华兹 三分球 不中\n" +
	"11:18\t戴维斯 防守篮板(进攻篮板:0 防守篮板:1)\t2-0\t\n" +
	"10:55\t里维斯 三分球 命中(3分)（詹姆斯 助攻）\t5-0\t\n"

func writeTestGameDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lakers-wolves.yaml"), []byte(testBundleYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lakers-wolves.txt"), []byte(testTranscript), 0o644))
	return dir
}

func TestLoadDir(t *testing.T) {
	reg := NewRegistry(zaptest.NewLogger(t))
	require.NoError(t, reg.LoadDir(writeTestGameDir(t)))

	entry, ok := reg.Get("lakers-wolves")
	require.True(t, ok)
	assert.Equal(t, "湖人", entry.Roster.Home.Name)
	// Quarter marker, make, miss, rebound, make plus its assist.
	assert.Len(t, entry.Events, 6)
}

func TestLoadDirSkipsBrokenBundles(t *testing.T) {
	dir := writeTestGameDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("home: [not, a, roster]"), 0o644))

	reg := NewRegistry(zaptest.NewLogger(t))
	require.NoError(t, reg.LoadDir(dir))

	_, ok := reg.Get("broken")
	assert.False(t, ok)
	assert.Len(t, reg.List(), 1)
}

func TestLoadDirMissingTranscript(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "game.yaml"), []byte(testBundleYAML), 0o644))

	reg := NewRegistry(zaptest.NewLogger(t))
	assert.Error(t, reg.LoadDir(dir))
}

func TestLoadDirEmpty(t *testing.T) {
	reg := NewRegistry(zaptest.NewLogger(t))
	assert.Error(t, reg.LoadDir(t.TempDir()))
}

func TestLoadDirMissingDir(t *testing.T) {
	reg := NewRegistry(zaptest.NewLogger(t))
	assert.Error(t, reg.LoadDir(filepath.Join(t.TempDir(), "nope")))
}

func TestListSummaries(t *testing.T) {
	reg := NewRegistry(zaptest.NewLogger(t))
	require.NoError(t, reg.LoadDir(writeTestGameDir(t)))

	summaries := reg.List()
	require.Len(t, summaries, 1)
	assert.Equal(t, "lakers-wolves", summaries[0].ID)
	assert.Equal(t, "2024-01-15", summaries[0].Date)
	assert.Equal(t, "湖人", summaries[0].HomeTeam)
	assert.Equal(t, "森林狼", summaries[0].AwayTeam)
	assert.Equal(t, 6, summaries[0].EventCount)
}

func TestIDFallsBackToFilename(t *testing.T) {
	dir := t.TempDir()
	// No info.id in the bundle, so the filename must supply the id.
	yaml := strings.Replace(testBundleYAML, "  id: lakers-wolves\n", "", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fallback.yaml"), []byte(yaml), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lakers-wolves.txt"), []byte(testTranscript), 0o644))

	reg := NewRegistry(zaptest.NewLogger(t))
	require.NoError(t, reg.LoadDir(dir))

	_, ok := reg.Get("fallback")
	assert.True(t, ok)
}
