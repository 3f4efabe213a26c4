package scene

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unityScene = `%YAML 1.1
%TAG !u! tag:unity3d.com,2011:
--- !u!29 &1
OcclusionCullingSettings:
  m_ObjectHideFlags: 0
--- !u!1 &519420028
GameObject:
  m_Name: Main Camera
  m_IsActive: 1
--- !u!4 &519420032 stripped
Transform:
  m_CorrespondingSourceObject: {fileID: 0}
--- !u!1 &705507993
GameObject:
  m_Name: Player
`

func TestConvert(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Convert(strings.NewReader(unityScene), &out))

	want := `%YAML 1.1
%TAG !u! tag:unity3d.com,2011:
--- !u!29 &1
OcclusionCullingSettings:
  m_ObjectHideFlags: 0
...
%TAG !u! tag:unity3d.com,2011:
--- !u!1 &519420028
GameObject:
  m_Name: Main Camera
  m_IsActive: 1
...
%TAG !u! tag:unity3d.com,2011:
--- !u!4 &519420032
Transform:
  m_CorrespondingSourceObject: {fileID: 0}
...
%TAG !u! tag:unity3d.com,2011:
--- !u!1 &705507993
GameObject:
  m_Name: Player
`
	assert.Equal(t, want, out.String())
}

func TestConvert_LeavesFirstDocumentAlone(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Convert(strings.NewReader("--- !u!4 &7 stripped\nTransform: {}\n"), &out))

	assert.Equal(t, "--- !u!4 &7 stripped\nTransform: {}\n", out.String())
}

func TestConvert_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Convert(strings.NewReader(""), &out))
	assert.Empty(t, out.String())
}

func TestParse(t *testing.T) {
	var converted bytes.Buffer
	require.NoError(t, Convert(strings.NewReader(unityScene), &converted))

	objects, err := Parse(&converted)
	require.NoError(t, err)
	require.Len(t, objects, 4)

	assert.Equal(t, Object{ClassID: 29, Type: "OcclusionCullingSettings", FileID: "1"}, objects[0])
	assert.Equal(t, Object{ClassID: 1, Type: "GameObject", FileID: "519420028"}, objects[1])
	assert.Equal(t, Object{ClassID: 4, Type: "Transform", FileID: "519420032"}, objects[2])

	assert.Equal(t, []TypeCount{
		{Type: "GameObject", Count: 2},
		{Type: "OcclusionCullingSettings", Count: 1},
		{Type: "Transform", Count: 1},
	}, Summarize(objects))
}

func TestValidate(t *testing.T) {
	var converted bytes.Buffer
	require.NoError(t, Convert(strings.NewReader(unityScene), &converted))

	n, err := Validate(&converted)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestValidate_ReportsBrokenDocument(t *testing.T) {
	broken := "a: 1\n---\nb: [unclosed\n"

	n, err := Validate(strings.NewReader(broken))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document 2")
	assert.Equal(t, 1, n)
}
