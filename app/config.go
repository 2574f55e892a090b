package app

import (
	"bytes"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const defaultConfig = `# openenum

################################## LOGGING ####################################

[logging]

#
# Logging verbosity level.
# Supported values: "DEBUG", "INFO", "WARN", "ERROR", "FATAL" or "PANIC".
#
level = "WARN"

################################## GENERATOR ##################################

[generator]

#
# Go package name of the generated files. When empty the go_package of the
# schema is used.
#
package = ""

#
# Directory where generated files are written.
#
out_dir = "."

#
# Enums with more values than this use a descriptor lookup instead of a
# switch statement to map numbers to constants.
#
large_enum_threshold = 64

#
# Drop the comments declared in the schema from the generated code.
#
strip_comments = false

################################## REGISTRY ###################################

[registry]

#
# Where published descriptors are stored.
# Supported values: "dynamodb", "sql" or "none".
#
store = "none"

#
# Name of the DynamoDB table, used when store = "dynamodb".
#
table = "openenum_descriptors"

#
# How often the server reloads the registry, e.g. "10s" or "1m".
#
reload_interval = "10s"

#
# Database used when store = "sql".
# Supported drivers: "sqlite", "postgres" or "mysql".
#
sql_driver = "sqlite"
sql_dsn = "file:openenum.db?cache=shared"

################################## SERVER #####################################

[server]

#
# Listening address of the HTTP API.
#
addr = ":6060"

################################## BROKER #####################################

[broker]

#
# AWS SNS topic ARN, e.g. "arn:aws:sns:us-east-2:444455556666:enums".
#
# publish announces new descriptors on this topic.
#
topic_arn = ""

#
# AWS SQS queue URL, e.g. "https://queue.amazonaws.com/80398EXAMPLE/enums".
#
# The server reloads the registry when it receives events from this queue.
#
queue_url = ""

################################## AWS ########################################

[aws]

s3_profile = ""
s3_endpoint = ""

dynamodb_profile = ""
dynamodb_endpoint = ""

sqs_profile = ""
sqs_endpoint = ""

sns_profile = ""
sns_endpoint = ""
`

const (
	storeDynamoDB = "dynamodb"
	storeSQL      = "sql"
	storeNone     = "none"
)

type Config struct {
	v *viper.Viper

	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`

	Generator struct {
		Package            string `mapstructure:"package"`
		OutDir             string `mapstructure:"out_dir"`
		LargeEnumThreshold int    `mapstructure:"large_enum_threshold"`
		StripComments      bool   `mapstructure:"strip_comments"`
	} `mapstructure:"generator"`

	Registry struct {
		Store          string `mapstructure:"store"`
		Table          string `mapstructure:"table"`
		ReloadInterval string `mapstructure:"reload_interval"`
		SQLDriver      string `mapstructure:"sql_driver"`
		SQLDSN         string `mapstructure:"sql_dsn"`
	} `mapstructure:"registry"`

	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`

	Broker struct {
		TopicARN string `mapstructure:"topic_arn"`
		QueueURL string `mapstructure:"queue_url"`
	} `mapstructure:"broker"`

	AWS struct {
		S3Profile        string `mapstructure:"s3_profile"`
		S3Endpoint       string `mapstructure:"s3_endpoint"`
		DynamoDBProfile  string `mapstructure:"dynamodb_profile"`
		DynamoDBEndpoint string `mapstructure:"dynamodb_endpoint"`
		SQSProfile       string `mapstructure:"sqs_profile"`
		SQSEndpoint      string `mapstructure:"sqs_endpoint"`
		SNSProfile       string `mapstructure:"sns_profile"`
		SNSEndpoint      string `mapstructure:"sns_endpoint"`
	} `mapstructure:"aws"`
}

func (c Config) Validate() error {
	switch c.Registry.Store {
	case storeNone:
	case storeDynamoDB:
		if c.Registry.Table == "" {
			return errors.New("registry.table is required by the dynamodb store")
		}
	case storeSQL:
		if c.Registry.SQLDriver == "" || c.Registry.SQLDSN == "" {
			return errors.New("registry.sql_driver and registry.sql_dsn are required by the sql store")
		}
	default:
		return errors.Errorf("unknown registry store %q", c.Registry.Store)
	}
	if _, err := c.reloadInterval(); err != nil {
		return err
	}
	if c.Generator.LargeEnumThreshold < 0 {
		return errors.New("generator.large_enum_threshold cannot be negative")
	}
	return nil
}

// reloadInterval accepts durations ("30s") and plain numbers of seconds.
func (c Config) reloadInterval() (time.Duration, error) {
	s := c.Registry.ReloadInterval
	if s == "" {
		return 0, nil
	}
	if secs, err := cast.ToIntE(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := cast.ToDurationE(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid registry.reload_interval %q", s)
	}
	return d, nil
}

func (c Config) String() string {
	if c.v == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c.v.AllSettings()); err != nil {
		return err.Error()
	}
	return buf.String()
}

func loadConfig(c *Config) error {
	v := viper.New()

	v.SetEnvPrefix("OPENENUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("openenum")
	v.SetConfigType("toml")
	v.AddConfigPath("$HOME/.config/")
	v.AddConfigPath("/etc/openenum/")

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read our default configuration.
	if err := v.ReadConfig(strings.NewReader(defaultConfig)); err != nil {
		panic(err) // Not in the user path.
	}

	// Include configuration file provided by the user.
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return errors.Wrap(err, "configuration unmarshaling failed")
	}

	if err := c.Validate(); err != nil {
		return errors.Wrap(err, "config did not pass validation")
	}

	c.v = v

	return nil
}
