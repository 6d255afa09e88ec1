package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	answerPoll    time.Duration
	answerWindow  time.Duration
	bind          string
	buzzPort      int
	buzzWindow    time.Duration
	lobbyWait     time.Duration
	port          int
	prefix        string
	profile       bool
	questionPause time.Duration
	questions     string
	tlsCert       string
	tlsKey        string
	verbose       bool
	version       bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.buzzPort < 1 || c.buzzPort > 65535 {
		return fmt.Errorf("invalid buzz port (must be between 1-65535 inclusive): %d", c.buzzPort)
	}
	if c.buzzPort == c.port {
		return errors.New("--buzz-port must differ from --port")
	}
	if c.buzzWindow <= 0 || c.answerWindow <= 0 || c.questionPause < 0 || c.lobbyWait < 0 {
		return errors.New("window durations must be positive")
	}
	if c.answerPoll <= 0 || c.answerPoll >= c.answerWindow {
		return fmt.Errorf("--answer-poll must be positive and shorter than --answer-window: %s", c.answerPoll)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("TRIVIABOX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "triviabox",
		Short:         "A live buzzer-style trivia server, arbitrating buzzes over UDP and questions over WebSockets.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return Serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.DurationVar(&cfg.answerPoll, "answer-poll", 100*time.Millisecond, "interval at which a candidate's pending answer is checked (env: TRIVIABOX_ANSWER_POLL)")
	fs.DurationVar(&cfg.answerWindow, "answer-window", 10*time.Second, "time a candidate has to answer after being acknowledged (env: TRIVIABOX_ANSWER_WINDOW)")
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: TRIVIABOX_BIND)")
	fs.IntVar(&cfg.buzzPort, "buzz-port", 8081, "UDP port for buzz signals (env: TRIVIABOX_BUZZ_PORT)")
	fs.DurationVar(&cfg.buzzWindow, "buzz-window", 15*time.Second, "time players have to buzz in after a question (env: TRIVIABOX_BUZZ_WINDOW)")
	fs.DurationVar(&cfg.lobbyWait, "lobby-wait", 10*time.Second, "time to wait for players before the first question (env: TRIVIABOX_LOBBY_WAIT)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on for HTTP and WebSocket traffic (env: TRIVIABOX_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: TRIVIABOX_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: TRIVIABOX_PROFILE)")
	fs.DurationVar(&cfg.questionPause, "question-pause", 5*time.Second, "pause between questions (env: TRIVIABOX_QUESTION_PAUSE)")
	fs.StringVarP(&cfg.questions, "questions", "q", "", "path to pipe-delimited question file; built-in set if empty (env: TRIVIABOX_QUESTIONS)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: TRIVIABOX_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: TRIVIABOX_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: TRIVIABOX_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: TRIVIABOX_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("triviabox v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
