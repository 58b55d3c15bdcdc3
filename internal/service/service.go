package service

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/markusressel/keepcool/internal/configuration"
	"github.com/natefinch/atomic"
)

// Descriptor describes the launchd job running the daemon
type Descriptor struct {
	Label      string
	Executable string
	Arguments  []string
}

var plistTemplate = template.Must(template.New("plist").Funcs(template.FuncMap{
	"xml": escape,
}).Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Disabled</key>
	<false/>
	<key>GroupName</key>
	<string>wheel</string>
	<key>UserName</key>
	<string>root</string>
	<key>KeepAlive</key>
	<true/>
	<key>Label</key>
	<string>{{ xml .Label }}</string>
	<key>ProgramArguments</key>
	<array>
		<string>{{ xml .Executable }}</string>
{{- range .Arguments }}
		<string>{{ xml . }}</string>
{{- end }}
	</array>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`))

func escape(value string) (string, error) {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(value)); err != nil {
		return "", err
	}
	return b.String(), nil
}

// NewDescriptor creates the descriptor of a daemon running with the given configuration
func NewDescriptor(config configuration.Configuration, configFile string) Descriptor {
	return Descriptor{
		Label:      config.Service.Label,
		Executable: config.Service.Executable,
		Arguments:  Arguments(config, configFile),
	}
}

// Arguments returns the command line reproducing the effective configuration
func Arguments(config configuration.Configuration, configFile string) []string {
	args := []string{"run"}
	if configFile != "" {
		args = append(args, "--config", configFile)
	}
	args = append(args,
		"-a", config.Curve.String(),
		"-T", config.TemperatureKey,
		"-m", fmt.Sprint(config.MinTemperature),
		"-M", fmt.Sprint(config.MaxTemperature),
	)
	if config.DryRun {
		args = append(args, "-n")
	}
	if config.Debug {
		args = append(args, "-d")
	}
	return args
}

func Render(w io.Writer, descriptor Descriptor) error {
	return plistTemplate.Execute(w, descriptor)
}

// Write renders the descriptor to path. The file is replaced atomically.
func Write(path string, descriptor Descriptor) error {
	var buf bytes.Buffer
	if err := Render(&buf, descriptor); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return nil
}
