package deck

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestLookupEncoding(t *testing.T) {
	for _, name := range []string{"", "UTF-8", "ascii"} {
		enc, err := LookupEncoding(name)
		require.NoError(t, err)
		assert.Nil(t, enc)
	}
	enc, err := LookupEncoding(" Latin1 ")
	require.NoError(t, err)
	assert.Equal(t, charmap.ISO8859_1, enc)

	_, err = LookupEncoding("ebcdic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "windows-1252")
	assert.Contains(t, EncodingNames(), "cp1252")
}

func TestReadLatin1(t *testing.T) {
	deck := "*NODE\n1, 0., 0., 0.\n*NSET, NSET=Caf\xe9\n1\n"
	r := NewReader(nil)
	r.Encoding = charmap.ISO8859_1
	m, err := r.Read(strings.NewReader(deck), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"Café"}, m.NodeSets.Names())
	ids, ok := m.NodeSets.Get("CAFÉ")
	assert.True(t, ok)
	assert.Equal(t, []int{1}, ids)
}
