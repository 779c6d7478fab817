// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package secrets

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML layout. Pointers distinguish omitted keys from
// empty ones.
type fileConfig struct {
	Device *string   `yaml:"device,omitempty"`
	Client *string   `yaml:"client,omitempty"`
	WiFi   *wifiFile `yaml:"wifi,omitempty"`
	MQTT   *mqttFile `yaml:"mqtt,omitempty"`
	OTA    *otaFile  `yaml:"ota,omitempty"`
}

type wifiFile struct {
	SSID     *string `yaml:"ssid,omitempty"`
	Password *string `yaml:"password,omitempty"`
}

type mqttFile struct {
	Host     *string `yaml:"host,omitempty"`
	Port     *int64  `yaml:"port,omitempty"`
	User     *string `yaml:"user,omitempty"`
	Password *string `yaml:"password,omitempty"`
}

type otaFile struct {
	Password *string `yaml:"password,omitempty"`
	Port     *int64  `yaml:"port,omitempty"`
}

// ParseYAML reads a secrets YAML document with STRICT parsing.
// Unknown fields, scalar type mismatches and multiple documents are errors.
// A null value counts as omitted; write "" for an explicit empty string.
func ParseYAML(r io.Reader) (Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read yaml: %w", err)
	}

	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fc); err != nil {
		if errors.Is(err, io.EOF) {
			return Set{}, nil
		}
		return nil, classifyYAMLError(err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: yaml contains multiple documents or trailing content", ErrSyntax)
	}

	return fc.set(), nil
}

// numericOverflow matches the decoder's message for a number literal that
// does not fit the int64 port field.
var numericOverflow = regexp.MustCompile("cannot unmarshal !!(?:int|float) `([^`]*)` into int64")

func classifyYAMLError(err error) error {
	var te *yaml.TypeError
	if errors.As(err, &te) {
		for _, msg := range te.Errors {
			switch {
			case strings.Contains(msg, "not found in type"):
				return fmt.Errorf("%w: %s", ErrUnknownKey, msg)
			case strings.Contains(msg, "already defined"):
				return fmt.Errorf("%w: %s", ErrDuplicateKey, msg)
			case isOverflow(msg):
				return fmt.Errorf("%w: %s", ErrOutOfRange, msg)
			}
		}
		return fmt.Errorf("%w: %s", ErrTypeMismatch, strings.Join(te.Errors, "; "))
	}
	if strings.Contains(err.Error(), "already defined") {
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	}
	return fmt.Errorf("%w: %v", ErrSyntax, err)
}

func isOverflow(msg string) bool {
	m := numericOverflow.FindStringSubmatch(msg)
	if m == nil {
		return false
	}
	_, err := strconv.ParseInt(strings.ReplaceAll(m[1], "_", ""), 10, 64)
	return errors.Is(err, strconv.ErrRange)
}

func (fc fileConfig) set() Set {
	set := Set{}
	str := func(key string, p *string) {
		if p != nil {
			set = append(set, Entry{Key: key, Value: StringValue(*p)})
		}
	}
	num := func(key string, p *int64) {
		if p != nil {
			set = append(set, Entry{Key: key, Value: IntValue(*p)})
		}
	}

	str(KeyDevice, fc.Device)
	str(KeyClient, fc.Client)
	if w := fc.WiFi; w != nil {
		str(KeyWiFiSSID, w.SSID)
		str(KeyWiFiPass, w.Password)
	}
	if m := fc.MQTT; m != nil {
		str(KeyMQTTIP, m.Host)
		num(KeyMQTTPort, m.Port)
		str(KeyMQTTUser, m.User)
		str(KeyMQTTPass, m.Password)
	}
	if o := fc.OTA; o != nil {
		str(KeyOTAPass, o.Password)
		num(KeyOTAPort, o.Port)
	}
	return set
}

func newFileConfig(set Set) (fileConfig, error) {
	reg := mustRegistry()
	var fc fileConfig
	seen := make(map[string]struct{}, len(set))

	for _, e := range set {
		info, ok := reg.Lookup(e.Key)
		if !ok {
			return fileConfig{}, fmt.Errorf("%w: %s", ErrUnknownKey, e.Key)
		}
		if _, dup := seen[e.Key]; dup {
			return fileConfig{}, fmt.Errorf("%w: %s", ErrDuplicateKey, e.Key)
		}
		seen[e.Key] = struct{}{}
		if e.Value.Kind() != info.Kind {
			return fileConfig{}, fmt.Errorf("%w: %s must be a %s literal", ErrTypeMismatch, e.Key, info.Kind)
		}

		text, num := Ptr(e.Value.Text()), Ptr(e.Value.Int())
		switch e.Key {
		case KeyDevice:
			fc.Device = text
		case KeyClient:
			fc.Client = text
		case KeyWiFiSSID:
			fc.wifi().SSID = text
		case KeyWiFiPass:
			fc.wifi().Password = text
		case KeyMQTTIP:
			fc.mqtt().Host = text
		case KeyMQTTPort:
			fc.mqtt().Port = num
		case KeyMQTTUser:
			fc.mqtt().User = text
		case KeyMQTTPass:
			fc.mqtt().Password = text
		case KeyOTAPass:
			fc.ota().Password = text
		case KeyOTAPort:
			fc.ota().Port = num
		}
	}
	return fc, nil
}

func (fc *fileConfig) wifi() *wifiFile {
	if fc.WiFi == nil {
		fc.WiFi = &wifiFile{}
	}
	return fc.WiFi
}

func (fc *fileConfig) mqtt() *mqttFile {
	if fc.MQTT == nil {
		fc.MQTT = &mqttFile{}
	}
	return fc.MQTT
}

func (fc *fileConfig) ota() *otaFile {
	if fc.OTA == nil {
		fc.OTA = &otaFile{}
	}
	return fc.OTA
}

// RenderYAML writes set as a YAML document grouped by section.
// Every key may appear at most once.
func RenderYAML(w io.Writer, set Set, opts RenderOptions) error {
	fc, err := newFileConfig(set)
	if err != nil {
		return err
	}

	var root yaml.Node
	if err := root.Encode(&fc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	root.HeadComment = strings.TrimPrefix(headerBanner, "// ")
	if opts.Comments {
		annotate(&root, "", mustRegistry())
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// annotate attaches key descriptions as line comments on scalar values.
func annotate(n *yaml.Node, prefix string, reg *Registry) {
	if n.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		path := key.Value
		if prefix != "" {
			path = prefix + "." + path
		}
		if val.Kind == yaml.MappingNode {
			annotate(val, path, reg)
			continue
		}
		if info, ok := reg.LookupPath(path); ok && info.Description != "" {
			val.LineComment = info.Description
		}
	}
}
