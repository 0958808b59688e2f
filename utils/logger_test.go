/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package utils

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel(" warning "))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("nonsense"))
}

func TestLoggerRegistry(t *testing.T) {
	l := NewLogger("REGISTRY_TEST")
	assert.Same(t, l, GetLogger("REGISTRY_TEST"))
	assert.Contains(t, RegisteredLoggers(), "REGISTRY_TEST")

	assert.True(t, SetLoggerLevel("REGISTRY_TEST", "error"))
	assert.Equal(t, logrus.ErrorLevel, l.GetLevel())
	assert.False(t, SetLoggerLevel("NO_SUCH_LOGGER", "error"))
}

func TestConsoleOutputText(t *testing.T) {
	var buf bytes.Buffer
	ConfigureConsoleOutput(&buf)
	t.Cleanup(func() { ConfigureConsoleOutput(os.Stdout) })

	l := NewLogger("TEXT_TEST")
	l.SetLevel(logrus.DebugLevel)
	l.WithField("id", 7).Info("entity added")

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "TEXT_TEST")
	assert.Contains(t, out, "entity added id=7")
}

func TestJSONFormatter(t *testing.T) {
	f := &JSONLogFormatter{LoggerName: "JSON_TEST"}
	entry := logrus.NewEntry(logrus.New()).WithField("table", "notes")
	entry.Message = "listed"
	entry.Level = logrus.WarnLevel

	b, err := f.Format(entry)
	require.NoError(t, err)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &rec))
	assert.Equal(t, "warning", rec["level"])
	assert.Equal(t, "JSON_TEST", rec["logger"])
	assert.Equal(t, "listed", rec["message"])
	assert.Equal(t, "notes", rec["fields"].(map[string]interface{})["table"])
}

func TestFileLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "entity.log")
	require.NoError(t, ConfigureFileLog(FileLogOptions{Path: path, MaxSizeMB: 1}))
	t.Cleanup(func() { _ = ConfigureFileLog(FileLogOptions{}) })
	ConfigureConsoleOutput(nil)
	t.Cleanup(func() { ConfigureConsoleOutput(os.Stdout) })

	GetLogger("FILE_TEST").Warn("written to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("ENTITY_TEST_STR", "value")
	t.Setenv("ENTITY_TEST_BOOL", "true")
	t.Setenv("ENTITY_TEST_INT", "nope")

	assert.Equal(t, "value", EnvDefaultString("ENTITY_TEST_STR", "def"))
	assert.Equal(t, "def", EnvDefaultString("ENTITY_TEST_MISSING", "def"))
	assert.True(t, EnvDefaultBool("ENTITY_TEST_BOOL", false))
	assert.Equal(t, 3, EnvDefaultInt("ENTITY_TEST_INT", 3))
}
