package vcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modifiedFileDiff = `diff --git a/src/app.ts b/src/app.ts
index 1111111..2222222 100644
--- a/src/app.ts
+++ b/src/app.ts
@@ -10,3 +15,4 @@ func region
-old 1
-old 2
-old 3
+new 1
+new 2
+new 3
+new 4
@@ -30,0 +40 @@ other region
+single addition
`

const deletionOnlyDiff = `diff --git a/src/cleanup.ts b/src/cleanup.ts
index 3333333..4444444 100644
--- a/src/cleanup.ts
+++ b/src/cleanup.ts
@@ -5,2 +4,0 @@ removed block
-gone 1
-gone 2
`

const newFileDiff = `diff --git a/src/fresh.ts b/src/fresh.ts
new file mode 100644
index 0000000..5555555
--- /dev/null
+++ b/src/fresh.ts
@@ -0,0 +1,2 @@
+line one
+line two
`

const deletedFileDiff = `diff --git a/src/dead.ts b/src/dead.ts
deleted file mode 100644
index 6666666..0000000
--- a/src/dead.ts
+++ /dev/null
@@ -1,2 +0,0 @@
-was here
-and here
`

func TestParseDiffHunkRanges(t *testing.T) {
	t.Parallel()

	info, err := ParseDiff(modifiedFileDiff)
	require.NoError(t, err)

	require.True(t, info.HasFile("src/app.ts"))
	assert.Equal(t, []LineRange{{Start: 15, End: 18}, {Start: 40, End: 40}}, info.Ranges("src/app.ts"))
}

func TestParseDiffOmittedCountMeansOneLine(t *testing.T) {
	t.Parallel()

	info, err := ParseDiff(modifiedFileDiff)
	require.NoError(t, err)

	assert.True(t, info.HasLine("src/app.ts", 40))
	assert.False(t, info.HasLine("src/app.ts", 41))
}

func TestParseDiffDeletionOnlyHunkRegistersFile(t *testing.T) {
	t.Parallel()

	info, err := ParseDiff(deletionOnlyDiff)
	require.NoError(t, err)

	assert.True(t, info.HasFile("src/cleanup.ts"))
	assert.Empty(t, info.Ranges("src/cleanup.ts"))
	assert.False(t, info.HasLine("src/cleanup.ts", 4))
}

func TestParseDiffNewFile(t *testing.T) {
	t.Parallel()

	info, err := ParseDiff(newFileDiff)
	require.NoError(t, err)

	assert.True(t, info.HasFile("src/fresh.ts"))
	assert.Equal(t, []LineRange{{Start: 1, End: 2}}, info.Ranges("src/fresh.ts"))
}

func TestParseDiffSkipsDeletedFiles(t *testing.T) {
	t.Parallel()

	info, err := ParseDiff(deletedFileDiff)
	require.NoError(t, err)

	assert.False(t, info.HasFile("src/dead.ts"))
	assert.Equal(t, 0, info.Files())
}

func TestParseDiffMultipleFiles(t *testing.T) {
	t.Parallel()

	info, err := ParseDiff(modifiedFileDiff + newFileDiff + deletedFileDiff)
	require.NoError(t, err)

	assert.Equal(t, 2, info.Files())
	assert.True(t, info.HasFile("src/app.ts"))
	assert.True(t, info.HasFile("src/fresh.ts"))
}

func TestParseDiffEmptyInput(t *testing.T) {
	t.Parallel()

	info, err := ParseDiff("")
	require.NoError(t, err)
	assert.Equal(t, 0, info.Files())
	assert.False(t, info.HasFile("anything"))
}

func TestParseDiffMalformedHunkHeader(t *testing.T) {
	t.Parallel()

	corrupt := `diff --git a/src/app.ts b/src/app.ts
index 1111111..2222222 100644
--- a/src/app.ts
+++ b/src/app.ts
@@ -1,0 +x,y @@
+line
`

	_, err := ParseDiff(corrupt)
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
}

func TestParseDiffMidStreamFailureIsTerminal(t *testing.T) {
	t.Parallel()

	// A valid file followed by a corrupt one must fail outright, not yield
	// an index holding only the files parsed before the failure.
	corrupt := newFileDiff + `diff --git a/src/other.ts b/src/other.ts
index 7777777..8888888 100644
--- a/src/other.ts
+++ b/src/other.ts
@@ -3,1 +broken @@
+line
`

	_, err := ParseDiff(corrupt)
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
}

func TestHasLineUnknownFile(t *testing.T) {
	t.Parallel()

	info, err := ParseDiff(newFileDiff)
	require.NoError(t, err)
	assert.False(t, info.HasLine("src/missing.ts", 1))
}

func TestLineRangeContains(t *testing.T) {
	t.Parallel()

	r := LineRange{Start: 5, End: 8}
	assert.False(t, r.Contains(4))
	assert.True(t, r.Contains(5))
	assert.True(t, r.Contains(8))
	assert.False(t, r.Contains(9))
}
