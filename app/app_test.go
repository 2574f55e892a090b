package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sns/snsiface"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JiscSD/openenum/broker"
	"github.com/JiscSD/openenum/broker/message"
	"github.com/JiscSD/openenum/registry"
	"github.com/JiscSD/openenum/schema"
)

const largeSchema = `{
  "package": "protobuf.large",
  "go_package": "largeenum",
  "edition": "2023",
  "enums": [{
    "name": "LargeOpenEnum",
    "values": [
      {"name": "LARGE_ENUM_UNSPECIFIED", "number": 0},
      {"name": "LARGE_ENUM1", "number": 1},
      {"name": "LARGE_ENUM2", "number": 2}
    ]
  }]
}`

const levelSchema = `
package: demo
go_package: demo
edition: proto2
enums:
  - name: Level
    values:
      - {name: LOW, number: 1}
      - {name: HIGH, number: 2}
  - name: Color
    values:
      - {name: RED, number: 1}
`

func testFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/schemas/large_open_enum.json", []byte(largeSchema), 0644))
	require.NoError(t, afero.WriteFile(fs, "/schemas/level.yaml", []byte(levelSchema), 0644))
	return fs
}

func execute(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	var out, stderr bytes.Buffer
	cmd := rootCommand(&out, &stderr, fs)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMainHelp(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"openenum", "help"}

	var (
		output    bytes.Buffer
		errOutput bytes.Buffer
	)
	err := Run(&output, &errOutput)

	require.NoError(t, err)
	assert.Contains(t, output.String(), "Available Commands")
	assert.Empty(t, errOutput.String())
}

func TestMainUnknownCommand(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"openenum", "unknown"}

	err := Run(ioutil.Discard, ioutil.Discard)

	assert.Error(t, err)
}

func TestCmdValidate(t *testing.T) {
	fs := testFs(t)

	out, err := execute(t, fs, "validate", "-f", "/schemas/large_open_enum.json")
	require.NoError(t, err)
	assert.Contains(t, out, "protobuf.large.LargeOpenEnum (OPEN): 3 values")
	assert.Contains(t, out, "The schema is valid!")

	out, err = execute(t, fs, "validate", "-f", "/schemas/level.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "demo.Level (CLOSED): 2 values")

	require.NoError(t, afero.WriteFile(fs, "/schemas/bad.json", []byte(`{
		"package": "demo",
		"enums": [{"name": "Bad", "values": [{"name": "ONE", "number": 1}]}]
	}`), 0644))
	_, err = execute(t, fs, "validate", "-f", "/schemas/bad.json")
	assert.EqualError(t, err, "schema: enum Bad value ONE: open enums must have zero number for the first value")

	_, err = execute(t, fs, "validate")
	assert.EqualError(t, err, "schema location is empty: use --file")
}

func TestCmdGenerate(t *testing.T) {
	fs := testFs(t)

	out, err := execute(t, fs, "generate", "-f", "/schemas/large_open_enum.json", "-o", "/out")
	require.NoError(t, err)
	assert.Equal(t, "/out/large_open_enum_gen.go\n", out)

	blob, err := afero.ReadFile(fs, "/out/large_open_enum_gen.go")
	require.NoError(t, err)
	src := string(blob)
	assert.True(t, strings.HasPrefix(src, "// Code generated by openenum. DO NOT EDIT."))
	assert.Contains(t, src, "package largeenum")
	assert.Contains(t, src, "LargeOpenEnum_UNRECOGNIZED")

	out, err = execute(t, fs, "generate", "-f", "/schemas/level.yaml", "-o", "/out", "--package", "levels")
	require.NoError(t, err)
	assert.Equal(t, "/out/level_gen.go\n", out)
	blob, err = afero.ReadFile(fs, "/out/level_gen.go")
	require.NoError(t, err)
	assert.Contains(t, string(blob), "package levels")
	assert.NotContains(t, string(blob), "Level_UNRECOGNIZED")
}

func TestCmdValues(t *testing.T) {
	fs := testFs(t)

	t.Run("JSON", func(t *testing.T) {
		out, err := execute(t, fs, "values", "-f", "/schemas/large_open_enum.json", "--format", "json")
		require.NoError(t, err)

		var rows []variantRow
		require.NoError(t, json.Unmarshal([]byte(out), &rows))
		require.Len(t, rows, 4)
		assert.Equal(t, "LARGE_ENUM1", rows[1].Name)
		require.NotNil(t, rows[1].Number)
		assert.Equal(t, int32(1), *rows[1].Number)
		assert.Equal(t, "UNRECOGNIZED", rows[3].Name)
		assert.Nil(t, rows[3].Number)
	})

	t.Run("logfmt", func(t *testing.T) {
		out, err := execute(t, fs, "values", "-f", "/schemas/large_open_enum.json", "--format", "logfmt")
		require.NoError(t, err)
		assert.Equal(t, strings.Join([]string{
			"enum=protobuf.large.LargeOpenEnum ordinal=0 name=LARGE_ENUM_UNSPECIFIED number=0",
			"enum=protobuf.large.LargeOpenEnum ordinal=1 name=LARGE_ENUM1 number=1",
			"enum=protobuf.large.LargeOpenEnum ordinal=2 name=LARGE_ENUM2 number=2",
			"enum=protobuf.large.LargeOpenEnum ordinal=3 name=UNRECOGNIZED number=null",
			"",
		}, "\n"), out)
	})

	t.Run("Table", func(t *testing.T) {
		out, err := execute(t, fs, "values", "-f", "/schemas/level.yaml", "-e", "demo.Level")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, []string{"ORDINAL", "NAME", "NUMBER"}, strings.Fields(lines[0]))
		assert.Equal(t, []string{"0", "LOW", "1"}, strings.Fields(lines[1]))
		assert.Equal(t, []string{"1", "HIGH", "2"}, strings.Fields(lines[2]))
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := execute(t, fs, "values", "-f", "/schemas/level.yaml")
		assert.EqualError(t, err, "the schema declares several enums: use --enum")

		_, err = execute(t, fs, "values", "-f", "/schemas/level.yaml", "-e", "Shape")
		assert.EqualError(t, err, "enum Shape not found in /schemas/level.yaml")

		_, err = execute(t, fs, "values", "-f", "/schemas/level.yaml", "-e", "Level", "--format", "xml")
		assert.EqualError(t, err, `unknown format "xml"`)
	})
}

type snsMock struct {
	snsiface.SNSAPI
	mock.Mock
}

func (m *snsMock) PublishWithContext(ctx aws.Context, input *sns.PublishInput, opts ...request.Option) (*sns.PublishOutput, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(*sns.PublishOutput), args.Error(1)
}

func TestPublish(t *testing.T) {
	logger, _ := test.NewNullLogger()
	f, err := schema.Parse("/schemas/level.yaml", []byte(levelSchema))
	require.NoError(t, err)

	client := &snsMock{}
	var enums []string
	client.On("PublishWithContext", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		input := args.Get(1).(*sns.PublishInput)
		e, err := message.Decode([]byte(aws.StringValue(input.Message)))
		require.NoError(t, err)
		assert.Equal(t, message.EventType_EVENT_TYPE_PUBLISHED, e.Type)
		enums = append(enums, e.Enum)
	}).Return(&sns.PublishOutput{}, nil)

	store := registry.NewMemoryStore()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	var out bytes.Buffer

	err = publish(context.Background(), &out, logger, store, broker.NewNotifier(client, "arn"), f, now)

	require.NoError(t, err)
	assert.Equal(t, "demo.Level\ndemo.Color\n", out.String())
	assert.Equal(t, []string{"demo.Level", "demo.Color"}, enums)

	recs, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "demo.Color", recs[0].Name)
	assert.Equal(t, "CLOSED", recs[0].Syntax)
	assert.Equal(t, "/schemas/level.yaml", recs[0].Source)
	assert.True(t, now.Equal(recs[0].Updated))
}

type storageMock struct {
	mock.Mock
}

func (m *storageMock) Download(ctx context.Context, w io.WriterAt, URI string) (int64, error) {
	args := m.Called(ctx, w, URI)
	return args.Get(0).(int64), args.Error(1)
}

func (m *storageMock) Upload(ctx context.Context, r io.Reader, URI string) error {
	blob, _ := ioutil.ReadAll(r)
	args := m.Called(ctx, string(blob), URI)
	return args.Error(0)
}

func TestPublish_Upload(t *testing.T) {
	logger, _ := test.NewNullLogger()
	location := "https://example.com/schemas/level.yaml?rev=2"
	f, err := schema.Parse(location, []byte(levelSchema))
	require.NoError(t, err)

	storage := &storageMock{}
	storage.On("Upload", mock.Anything, levelSchema, "s3://schemas/enums/level.yaml").Return(nil).Once()

	err = uploadSchema(context.Background(), logger, storage, f, []byte(levelSchema), "s3://schemas/enums/")
	require.NoError(t, err)
	storage.AssertExpectations(t)
	assert.Equal(t, "s3://schemas/enums/level.yaml", f.Path)

	store := registry.NewMemoryStore()
	require.NoError(t, publish(context.Background(), ioutil.Discard, logger, store, nil, f, time.Now()))
	recs, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, rec := range recs {
		assert.Equal(t, "s3://schemas/enums/level.yaml", rec.Source)
	}
}

func TestPublish_UploadFailure(t *testing.T) {
	logger, _ := test.NewNullLogger()
	f, err := schema.Parse("/schemas/level.yaml", []byte(levelSchema))
	require.NoError(t, err)

	storage := &storageMock{}
	storage.On("Upload", mock.Anything, mock.Anything, "s3://schemas/level.yaml").Return(errors.New("access denied")).Once()

	err = uploadSchema(context.Background(), logger, storage, f, []byte(levelSchema), "s3://schemas")
	assert.EqualError(t, err, "schema could not be uploaded to s3://schemas/level.yaml: access denied")
	assert.Equal(t, "/schemas/level.yaml", f.Path)
}

func TestCmdPublish_NoStore(t *testing.T) {
	_, err := execute(t, testFs(t), "publish", "-f", "/schemas/level.yaml")
	assert.EqualError(t, err, "publish needs a registry store: set registry.store")
}

func TestCmdVersion(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), "version")
	require.NoError(t, err)
	assert.Equal(t, "openenum/dev\n", out)
}

func TestConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, loadConfig(c))
		assert.Equal(t, "WARN", c.Logging.Level)
		assert.Equal(t, "none", c.Registry.Store)
		assert.Equal(t, 64, c.Generator.LargeEnumThreshold)
		assert.Equal(t, ":6060", c.Server.Addr)

		d, err := c.reloadInterval()
		require.NoError(t, err)
		assert.Equal(t, 10*time.Second, d)

		assert.Contains(t, c.String(), "[registry]")
	})

	t.Run("Environment", func(t *testing.T) {
		t.Setenv("OPENENUM_REGISTRY_STORE", "sql")
		t.Setenv("OPENENUM_REGISTRY_RELOAD_INTERVAL", "30")

		c := &Config{}
		require.NoError(t, loadConfig(c))
		assert.Equal(t, "sql", c.Registry.Store)

		d, err := c.reloadInterval()
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, d)
	})

	t.Run("Invalid", func(t *testing.T) {
		t.Setenv("OPENENUM_REGISTRY_STORE", "redis")

		err := loadConfig(&Config{})
		assert.EqualError(t, err, `config did not pass validation: unknown registry store "redis"`)
	})

	t.Run("File", func(t *testing.T) {
		dir := t.TempDir()
		p := dir + "/openenum.toml"
		require.NoError(t, ioutil.WriteFile(p, []byte("[registry]\nstore = \"dynamodb\"\ntable = \"enums\"\nreload_interval = \"1m\"\n"), 0644))
		configFile = p
		defer func() { configFile = "" }()

		c := &Config{}
		require.NoError(t, loadConfig(c))
		assert.Equal(t, "dynamodb", c.Registry.Store)
		assert.Equal(t, "enums", c.Registry.Table)
		d, err := c.reloadInterval()
		require.NoError(t, err)
		assert.Equal(t, time.Minute, d)
	})
}
