// edge-viewer - display live edge detected camera frames
//  Copyright (C) 2020, The Cacophony Project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.


package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	dir := t.TempDir()
	conf := "[device]\nid = 42\nname = \"hill-camera\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(conf), 0644))

	d, err := Read(dir)
	require.NoError(t, err)
	assert.Equal(t, Identity{ID: 42, Name: "hill-camera"}, d)
}

func TestAddDetails(t *testing.T) {
	details := map[string]interface{}{"width": 8}
	Identity{ID: 7, Name: "cam"}.AddDetails(details)
	assert.Equal(t, map[string]interface{}{
		"width":      8,
		"deviceID":   7,
		"deviceName": "cam",
	}, details)
}
