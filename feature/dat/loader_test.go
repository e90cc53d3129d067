package dat

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dat-matcher/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDAT = `<?xml version="1.0"?>
<!DOCTYPE datafile PUBLIC "-//Logiqx//DTD ROM Management Datafile//EN" "http://www.logiqx.com/Dats/datafile.dtd">
<datafile>
	<header>
		<name>Nintendo - Nintendo Entertainment System</name>
		<description>Nintendo - Nintendo Entertainment System</description>
		<version>20240101-000000</version>
	</header>
	<game name="Game (USA)">
		<description>Game (USA)</description>
		<rom name="Game (USA).nes" size="40960" crc="3B2D6B3A" md5="0A1B2C3D4E5F60718293A4B5C6D7E8F9" sha1="AABBCCDDEEFF00112233445566778899AABBCCDD"/>
	</game>
	<game name="Two Disc (Europe)">
		<rom name="Two Disc (Europe) (Disc 1).bin" size="1" md5="11111111111111111111111111111111" sha1="1111111111111111111111111111111111111111"/>
		<rom name="Two Disc (Europe) (Disc 2).bin" size="1" md5="22222222222222222222222222222222"/>
	</game>
</datafile>`

func TestParse_Valid(t *testing.T) {
	cat, err := Parse(strings.NewReader(validDAT))
	require.NoError(t, err)

	assert.Equal(t, "Nintendo - Nintendo Entertainment System", cat.Name)
	assert.Equal(t, "20240101-000000", cat.Version)
	assert.Equal(t, 2, cat.Games)
	require.Len(t, cat.Entries, 3)

	assert.Equal(t, reconcile.Entry{
		Name:       "Game (USA).nes",
		Hash:       "0a1b2c3d4e5f60718293a4b5c6d7e8f9",
		SHA1:       "AABBCCDDEEFF00112233445566778899AABBCCDD",
		CatalogMD5: "0A1B2C3D4E5F60718293A4B5C6D7E8F9",
		Game:       "Game (USA)",
	}, cat.Entries[0])
	assert.Equal(t, "Two Disc (Europe) (Disc 2).bin", cat.Entries[2].Name)
	assert.Empty(t, cat.Entries[2].SHA1)
}

func TestParse_Machines(t *testing.T) {
	doc := `<datafile><machine name="pacman"><rom name="pacman.6e" md5="33333333333333333333333333333333"/></machine></datafile>`

	cat, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, cat.Entries, 1)
	assert.Equal(t, "pacman", cat.Entries[0].Game)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantMsg string
	}{
		{
			name:    "not xml",
			doc:     "this is not a dat",
			wantMsg: "decode",
		},
		{
			name:    "wrong root",
			doc:     `<softwarelist><software name="x"/></softwarelist>`,
			wantMsg: "decode",
		},
		{
			name:    "game without rom",
			doc:     `<datafile><game name="Empty"/></datafile>`,
			wantMsg: "has no rom",
		},
		{
			name:    "rom without name",
			doc:     `<datafile><game name="G"><rom md5="33333333333333333333333333333333"/></game></datafile>`,
			wantMsg: "without a name",
		},
		{
			name:    "rom without md5",
			doc:     `<datafile><game name="G"><rom name="g.bin" sha1="aa"/></game></datafile>`,
			wantMsg: "invalid md5",
		},
		{
			name:    "machine with crc and sha1 only",
			doc:     `<datafile><machine name="pacman"><rom name="pacman.6e" size="4096" crc="c1e6ab10" sha1="e87e059c5be45753f7e9f33dff851f16d6751181"/></machine></datafile>`,
			wantMsg: "invalid md5",
		},
		{
			name:    "device machine without rom",
			doc:     `<datafile><machine name="z80" isdevice="yes"/></datafile>`,
			wantMsg: "has no rom",
		},
		{
			name:    "md5 not hex",
			doc:     `<datafile><game name="G"><rom name="g.bin" md5="zz333333333333333333333333333333"/></game></datafile>`,
			wantMsg: "invalid md5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := Parse(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Nil(t, cat)
			assert.True(t, errors.Is(err, reconcile.ErrCatalog))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("FromFile", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "nes.dat")
		require.NoError(t, os.WriteFile(p, []byte(validDAT), 0o600))

		cat, err := Load(p)
		require.NoError(t, err)
		assert.Len(t, cat.Entries, 3)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.dat"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, reconcile.ErrConfig))
	})

	t.Run("MalformedFileNamesPath", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "broken.dat")
		require.NoError(t, os.WriteFile(p, []byte(`<datafile><game name="x"/></datafile>`), 0o600))

		_, err := Load(p)
		require.Error(t, err)
		assert.True(t, errors.Is(err, reconcile.ErrCatalog))
		assert.Contains(t, err.Error(), "broken.dat")
	})
}
