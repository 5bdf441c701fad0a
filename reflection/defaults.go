package reflection

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"github.com/oy3o/rbxdom/value"
)

// Capture stream message kinds.
const (
	MessageVersion           = "Version"
	MessageDefaultProperties = "DefaultProperties"
)

type versionMessage struct {
	Version Version `json:"version"`
}

type defaultsMessage struct {
	ClassName  string                     `json:"className"`
	Properties map[string]json.RawMessage `json:"properties"`
}

// MergeReport counts what happened to each part of a capture stream.
type MergeReport struct {
	Version         Version
	Messages        int
	Merged          int
	UnknownMessages int
	UnknownClasses  []string
	Unknown         int
	Excluded        int
	Rejected        int
}

// MergeDefaults reads a stream of capture messages, either concatenated or
// newline-delimited JSON objects, and stores the captured values as
// property defaults. Messages for unknown classes, unknown properties and
// excluded names are counted and skipped. Only a malformed stream is an
// error.
func (b *Builder) MergeDefaults(r io.Reader, policy ExclusionPolicy) (MergeReport, error) {
	var report MergeReport
	dec := json.NewDecoder(r)
	for {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return report, fmt.Errorf("reflection: capture message %d: %w", report.Messages+1, err)
		}
		report.Messages++

		switch kind := gjson.GetBytes(raw, "type").String(); kind {
		case MessageVersion:
			var msg versionMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				return report, fmt.Errorf("reflection: version message: %w", err)
			}
			b.version = msg.Version
			report.Version = msg.Version
		case MessageDefaultProperties:
			var msg defaultsMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				return report, fmt.Errorf("reflection: defaults message: %w", err)
			}
			b.mergeClassDefaults(msg, policy, &report)
		default:
			report.UnknownMessages++
			b.logger.Warn("skipping capture message", "type", kind)
		}
	}
	return report, nil
}

func (b *Builder) mergeClassDefaults(msg defaultsMessage, policy ExclusionPolicy, report *MergeReport) {
	class, ok := b.classes[msg.ClassName]
	if !ok {
		report.UnknownClasses = append(report.UnknownClasses, msg.ClassName)
		b.logger.Debug("capture names unknown class", "class", msg.ClassName)
		return
	}
	if policy.ExcludesClass(class.Name) {
		report.Excluded += len(msg.Properties)
		return
	}

	for name, raw := range msg.Properties {
		if policy.ExcludesProperty(name) {
			report.Excluded++
			continue
		}
		p, owner, err := findProperty(b.classes, class.Name, name)
		if err == nil && !p.IsCanonical && p.CanonicalName != "" {
			p, owner, err = findProperty(b.classes, class.Name, p.CanonicalName)
		}
		if err != nil || !p.IsCanonical {
			report.Unknown++
			continue
		}

		v, err := value.UnmarshalJSON(raw)
		if err != nil {
			report.Rejected++
			b.logger.Warn("bad captured default", "class", class.Name, "property", name, "err", err)
			continue
		}
		if declared, ok := p.Type.Variant(); ok && declared != v.Type() {
			report.Rejected++
			b.logger.Warn("captured default has wrong type",
				"class", class.Name, "property", name, "declared", declared, "type", v.Type())
			continue
		}

		// Defaults are per class; an inherited property gets a shadow copy
		// on the captured class.
		if owner != class {
			shadow := *p
			p = &shadow
			class.Properties[p.Name] = p
		}
		p.Default = v
		report.Merged++
	}
}
