// Copyright 2023 LiveKit, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/livekit/protocol/logger"
)

const (
	generatedCLIFlagUsage = "generated"
	envVarPrefix          = "MESHSIGNAL_"
)

var (
	ErrTLSIncomplete    = errors.New("tls requires both cert_file and key_file")
	ErrInvalidPortRange = errors.New("rtc.port_range_end must be greater than rtc.port_range_start")
)

type Config struct {
	Port           uint32        `yaml:"port,omitempty"`
	BindAddresses  []string      `yaml:"bind_addresses,omitempty"`
	PrometheusPort uint32        `yaml:"prometheus_port,omitempty"`
	RTC            RTCConfig     `yaml:"rtc,omitempty"`
	Redis          RedisConfig   `yaml:"redis,omitempty"`
	Signal         SignalConfig  `yaml:"signal,omitempty"`
	Logging        LoggingConfig `yaml:"logging,omitempty"`

	Development bool `yaml:"development,omitempty"`
}

type RTCConfig struct {
	// single port for all ICE traffic, takes precedence over the port range
	UDPPort           uint32 `yaml:"udp_port,omitempty"`
	ICEPortRangeStart uint32 `yaml:"port_range_start,omitempty"`
	ICEPortRangeEnd   uint32 `yaml:"port_range_end,omitempty"`

	// IP announced in candidates; discovered when UseExternalIP is set
	NodeIP        string       `yaml:"node_ip,omitempty"`
	UseExternalIP bool         `yaml:"use_external_ip,omitempty"`
	STUNServers   []string     `yaml:"stun_servers,omitempty"`
	TURNServers   []TURNServer `yaml:"turn_servers,omitempty"`
	UseICELite    bool         `yaml:"use_ice_lite,omitempty"`

	ICEDisconnectedTimeout time.Duration `yaml:"ice_disconnected_timeout,omitempty"`
	ICEFailedTimeout       time.Duration `yaml:"ice_failed_timeout,omitempty"`
	ICEKeepaliveInterval   time.Duration `yaml:"ice_keepalive_interval,omitempty"`
	// upper bound on waiting for local candidates before an answer is returned
	GatherTimeout time.Duration `yaml:"gather_timeout,omitempty"`

	// mime types; empty means pion defaults
	EnabledCodecs []CodecSpec `yaml:"enabled_codecs,omitempty"`
}

type TURNServer struct {
	Host       string `yaml:"host,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	Protocol   string `yaml:"protocol,omitempty"`
	Username   string `yaml:"username,omitempty"`
	Credential string `yaml:"credential,omitempty"`
}

type CodecSpec struct {
	Mime     string `yaml:"mime,omitempty"`
	FmtpLine string `yaml:"fmtp_line,omitempty"`
}

type RedisConfig struct {
	Address  string `yaml:"address,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	UseTLS   bool   `yaml:"use_tls,omitempty"`
}

type SignalConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
	StaticDir      string   `yaml:"static_dir,omitempty"`
	IndexFile      string   `yaml:"index_file,omitempty"`
	CertFile       string   `yaml:"cert_file,omitempty"`
	KeyFile        string   `yaml:"key_file,omitempty"`
	// coalesces peer list pushes on the events socket
	EventsDebounce time.Duration `yaml:"events_debounce,omitempty"`
	// max accepted request body
	MaxBodyBytes int64 `yaml:"max_body_bytes,omitempty"`
}

// PionComponent is the logger component pion/webrtc logs under
const PionComponent = "pion"

type LoggingConfig struct {
	logger.Config `yaml:",inline"`
	PionLevel     string `yaml:"pion_level,omitempty"`
}

func (r RedisConfig) IsConfigured() bool {
	return r.Address != ""
}

func (s SignalConfig) TLSEnabled() bool {
	return s.CertFile != "" && s.KeyFile != ""
}

var DefaultStunServers = []string{
	"stun.l.google.com:19302",
	"stun1.l.google.com:19302",
}

var DefaultConfig = Config{
	Port: 8443,
	RTC: RTCConfig{
		ICEPortRangeStart:      50000,
		ICEPortRangeEnd:        60000,
		STUNServers:            DefaultStunServers,
		ICEDisconnectedTimeout: 10 * time.Second,
		ICEFailedTimeout:       25 * time.Second,
		ICEKeepaliveInterval:   2 * time.Second,
		GatherTimeout:          3 * time.Second,
	},
	Signal: SignalConfig{
		AllowedOrigins: []string{"*"},
		EventsDebounce: 200 * time.Millisecond,
		MaxBodyBytes:   1 << 20,
	},
	Logging: LoggingConfig{
		PionLevel: "error",
	},
}

func NewConfig(confString string, strictMode bool, c *cli.Context, baseFlags []cli.Flag) (*Config, error) {
	// start with defaults
	marshalled, err := yaml.Marshal(&DefaultConfig)
	if err != nil {
		return nil, err
	}

	var conf Config
	err = yaml.Unmarshal(marshalled, &conf)
	if err != nil {
		return nil, err
	}

	if confString != "" {
		decoder := yaml.NewDecoder(strings.NewReader(confString))
		decoder.KnownFields(strictMode)
		if err := decoder.Decode(&conf); err != nil {
			return nil, fmt.Errorf("could not parse config: %v", err)
		}
	}

	if c != nil {
		if err := conf.updateFromCLI(c, baseFlags); err != nil {
			return nil, err
		}
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	// expand env vars in filenames
	for _, path := range []*string{&conf.Signal.StaticDir, &conf.Signal.IndexFile, &conf.Signal.CertFile, &conf.Signal.KeyFile} {
		if *path == "" {
			continue
		}
		file, err := homedir.Expand(os.ExpandEnv(*path))
		if err != nil {
			return nil, err
		}
		*path = file
	}

	if conf.Logging.Level == "" && conf.Development {
		conf.Logging.Level = "debug"
	}
	if conf.Logging.PionLevel != "" {
		if conf.Logging.ComponentLevels == nil {
			conf.Logging.ComponentLevels = map[string]string{}
		}
		conf.Logging.ComponentLevels[PionComponent] = conf.Logging.PionLevel
	}

	return &conf, nil
}

func (conf *Config) validate() error {
	if conf.RTC.UDPPort == 0 && conf.RTC.ICEPortRangeStart != 0 && conf.RTC.ICEPortRangeEnd <= conf.RTC.ICEPortRangeStart {
		return ErrInvalidPortRange
	}
	if (conf.Signal.CertFile == "") != (conf.Signal.KeyFile == "") {
		return ErrTLSIncomplete
	}
	return nil
}

// ResolveNodeIP fills RTC.NodeIP when it was not configured explicitly
func (conf *Config) ResolveNodeIP() error {
	if conf.RTC.NodeIP != "" {
		return nil
	}
	ip, err := conf.determineIP()
	if err != nil {
		return err
	}
	conf.RTC.NodeIP = ip
	return nil
}

type configNode struct {
	TypeNode  reflect.Value
	TagPrefix string
}

func (conf *Config) ToCLIFlagNames(existingFlags []cli.Flag) map[string]reflect.Value {
	existingFlagNames := map[string]bool{}
	for _, flag := range existingFlags {
		for _, flagName := range flag.Names() {
			existingFlagNames[flagName] = true
		}
	}

	flagNames := map[string]reflect.Value{}
	var currNode configNode
	nodes := []configNode{{reflect.ValueOf(conf).Elem(), ""}}
	for len(nodes) > 0 {
		currNode, nodes = nodes[0], nodes[1:]
		for i := 0; i < currNode.TypeNode.NumField(); i++ {
			// inspect yaml tag from struct field to get path
			field := currNode.TypeNode.Type().Field(i)
			yamlTagArray := strings.SplitN(field.Tag.Get("yaml"), ",", 2)
			yamlTag := yamlTagArray[0]
			isInline := len(yamlTagArray) > 1 && yamlTagArray[1] == "inline"
			if (yamlTag == "" && !isInline) || yamlTag == "-" {
				continue
			}
			yamlPath := yamlTag
			if isInline {
				yamlPath = currNode.TagPrefix
			} else if currNode.TagPrefix != "" {
				yamlPath = fmt.Sprintf("%s.%s", currNode.TagPrefix, yamlTag)
			}
			if existingFlagNames[yamlPath] {
				continue
			}

			value := currNode.TypeNode.Field(i)
			if value.Kind() == reflect.Struct {
				nodes = append(nodes, configNode{value, yamlPath})
			} else {
				flagNames[yamlPath] = value
			}
		}
	}

	return flagNames
}

// GenerateCLIFlags exposes every scalar config field as a flag named after its yaml path
func GenerateCLIFlags(existingFlags []cli.Flag, hidden bool) ([]cli.Flag, error) {
	blankConfig := &Config{}
	flags := make([]cli.Flag, 0)
	for name, value := range blankConfig.ToCLIFlagNames(existingFlags) {
		kind := value.Kind()
		if kind == reflect.Ptr {
			kind = value.Type().Elem().Kind()
		}

		var flag cli.Flag
		envVar := envVarPrefix + strings.ToUpper(strings.ReplaceAll(name, ".", "_"))

		switch kind {
		case reflect.Bool:
			flag = &cli.BoolFlag{
				Name:    name,
				EnvVars: []string{envVar},
				Usage:   generatedCLIFlagUsage,
				Hidden:  hidden,
			}
		case reflect.String:
			flag = &cli.StringFlag{
				Name:    name,
				EnvVars: []string{envVar},
				Usage:   generatedCLIFlagUsage,
				Hidden:  hidden,
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
			flag = &cli.IntFlag{
				Name:    name,
				EnvVars: []string{envVar},
				Usage:   generatedCLIFlagUsage,
				Hidden:  hidden,
			}
		case reflect.Int64:
			if value.Type() == reflect.TypeOf(time.Duration(0)) {
				flag = &cli.DurationFlag{
					Name:    name,
					EnvVars: []string{envVar},
					Usage:   generatedCLIFlagUsage,
					Hidden:  hidden,
				}
			} else {
				flag = &cli.Int64Flag{
					Name:    name,
					EnvVars: []string{envVar},
					Usage:   generatedCLIFlagUsage,
					Hidden:  hidden,
				}
			}
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
			flag = &cli.UintFlag{
				Name:    name,
				EnvVars: []string{envVar},
				Usage:   generatedCLIFlagUsage,
				Hidden:  hidden,
			}
		case reflect.Uint64:
			flag = &cli.Uint64Flag{
				Name:    name,
				EnvVars: []string{envVar},
				Usage:   generatedCLIFlagUsage,
				Hidden:  hidden,
			}
		case reflect.Float32, reflect.Float64:
			flag = &cli.Float64Flag{
				Name:    name,
				EnvVars: []string{envVar},
				Usage:   generatedCLIFlagUsage,
				Hidden:  hidden,
			}
		case reflect.Slice, reflect.Map, reflect.Struct:
			// configured through yaml only
			continue
		default:
			return flags, fmt.Errorf("cli flag generation unsupported for config type: %s is a %s", name, kind.String())
		}

		flags = append(flags, flag)
	}

	return flags, nil
}

func (conf *Config) updateFromCLI(c *cli.Context, baseFlags []cli.Flag) error {
	generatedFlagNames := conf.ToCLIFlagNames(baseFlags)
	for _, flag := range c.App.Flags {
		flagName := flag.Names()[0]

		// the `c.App.Name != "test"` check is needed because `c.IsSet(...)` is always false in unit tests
		if !c.IsSet(flagName) && c.App.Name != "test" {
			continue
		}

		configValue, ok := generatedFlagNames[flagName]
		if !ok {
			continue
		}

		kind := configValue.Kind()
		if kind == reflect.Ptr {
			// instantiate value to be set
			configValue.Set(reflect.New(configValue.Type().Elem()))

			kind = configValue.Type().Elem().Kind()
			configValue = configValue.Elem()
		}

		switch kind {
		case reflect.Bool:
			configValue.SetBool(c.Bool(flagName))
		case reflect.String:
			configValue.SetString(c.String(flagName))
		case reflect.Int64:
			if configValue.Type() == reflect.TypeOf(time.Duration(0)) {
				configValue.SetInt(int64(c.Duration(flagName)))
			} else {
				configValue.SetInt(c.Int64(flagName))
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
			configValue.SetInt(int64(c.Int(flagName)))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
			configValue.SetUint(uint64(c.Uint(flagName)))
		case reflect.Uint64:
			configValue.SetUint(c.Uint64(flagName))
		case reflect.Float32, reflect.Float64:
			configValue.SetFloat(c.Float64(flagName))
		default:
			return fmt.Errorf("unsupported generated cli flag type for config: %s is a %s", flagName, kind.String())
		}
	}

	if c.IsSet("dev") {
		conf.Development = c.Bool("dev")
	}
	if c.IsSet("port") {
		conf.Port = uint32(c.Uint("port"))
	}
	if c.IsSet("redis-host") {
		conf.Redis.Address = c.String("redis-host")
	}
	if c.IsSet("redis-password") {
		conf.Redis.Password = c.String("redis-password")
	}
	if c.IsSet("node-ip") {
		conf.RTC.NodeIP = c.String("node-ip")
	}
	if c.IsSet("udp-port") {
		conf.RTC.UDPPort = uint32(c.Uint("udp-port"))
	}
	if c.IsSet("static-dir") {
		conf.Signal.StaticDir = c.String("static-dir")
	}
	if c.IsSet("tls-cert") {
		conf.Signal.CertFile = c.String("tls-cert")
	}
	if c.IsSet("tls-key") {
		conf.Signal.KeyFile = c.String("tls-key")
	}
	if c.IsSet("bind") {
		conf.BindAddresses = c.StringSlice("bind")
	}
	return nil
}

func InitLoggerFromConfig(config *LoggingConfig) {
	logger.InitFromConfig(config.Config, "meshsignal")
}
