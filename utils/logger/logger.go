package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/inletio/inlet/constants"
)

var logger zerolog.Logger

// Message is the host-protocol envelope written to stdout. Payload fields are
// typed loosely so this package stays import-free of the rest of the module.
type Message struct {
	Type             string    `json:"type"`
	Spec             any       `json:"spec,omitempty"`
	Catalog          any       `json:"catalog,omitempty"`
	State            any       `json:"state,omitempty"`
	ConnectionStatus any       `json:"connectionStatus,omitempty"`
	EmittedAt        time.Time `json:"emitted_at,omitempty"`
}

type statusPayload struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func init() {
	// console-only until Init wires the file writer
	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger = zerolog.New(console).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

// Init attaches a rolling file writer under the configured folder. Must be
// called after viper holds CONFIG_FOLDER.
func Init() {
	logDir := filepath.Join(viper.GetString(constants.ConfigFolder), "logs", fmt.Sprintf("sync_%s", time.Now().UTC().Format("2006-01-02_15-04-05")))

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "inlet.log"),
		MaxSize:    100, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}

	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	multi := zerolog.MultiLevelWriter(console, fileWriter)
	logger = zerolog.New(multi).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

func Debug(v ...interface{}) {
	logger.Debug().Msg(fmt.Sprint(v...))
}

func Debugf(format string, v ...interface{}) {
	logger.Debug().Msgf(format, v...)
}

func Info(v ...interface{}) {
	logger.Info().Msg(fmt.Sprint(v...))
}

func Infof(format string, v ...interface{}) {
	logger.Info().Msgf(format, v...)
}

func Warn(v ...interface{}) {
	logger.Warn().Msg(fmt.Sprint(v...))
}

func Warnf(format string, v ...interface{}) {
	logger.Warn().Msgf(format, v...)
}

func Error(v ...interface{}) {
	logger.Error().Msg(fmt.Sprint(v...))
}

func Errorf(format string, v ...interface{}) {
	logger.Error().Msgf(format, v...)
}

func Fatal(v ...interface{}) {
	logger.Fatal().Msg(fmt.Sprint(v...))
}

func Fatalf(format string, v ...interface{}) {
	logger.Fatal().Msgf(format, v...)
}

func emit(message Message) {
	message.EmittedAt = time.Now().UTC()
	content, err := json.Marshal(message)
	if err != nil {
		Errorf("failed to marshal %s message: %s", message.Type, err)
		return
	}

	fmt.Fprintln(os.Stdout, string(content))
}

func LogSpec(spec any) {
	Info("Generating Spec")
	emit(Message{Type: "SPEC", Spec: spec})
}

func LogCatalog(catalog any) {
	Info("Generating Catalog")
	emit(Message{Type: "CATALOG", Catalog: catalog})
}

func LogState(state any) {
	emit(Message{Type: "STATE", State: state})
}

func LogConnectionStatus(err error) {
	status := statusPayload{Status: "SUCCEEDED"}
	if err != nil {
		status.Status = "FAILED"
		status.Message = err.Error()
	}

	emit(Message{Type: "CONNECTION_STATUS", ConnectionStatus: status})
}
