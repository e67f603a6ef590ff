package sealpdf

import (
	"github.com/grainpress/sealpdf/cmm"
	"github.com/grainpress/sealpdf/compliance"
	"github.com/grainpress/sealpdf/observability"
)

// Version is a PDF header version string, spec §6 bounds this to 1.4–2.0.
type Version string

const (
	Version14 Version = "1.4"
	Version15 Version = "1.5"
	Version16 Version = "1.6"
	Version17 Version = "1.7"
	Version20 Version = "2.0"
)

// Settings is the serialize-time configuration spec §6 names: ASCII-safe
// output, stream compression, device-colorspace avoidance, XMP metadata,
// tagging, an optional CMYK working profile, the target PDF version, and an
// optional conformance validator. Grounded on writer/writer.go's Config
// plain-struct shape.
type Settings struct {
	Version          Version
	ASCIICompatible  bool
	CompressStreams  bool
	NoDeviceCS       bool
	EmbedXMP         bool
	Tagged           bool
	CMYKProfile      *cmm.Profile
	Validator        compliance.Validator
	Producer         string
	Logger           observability.Logger
	Tracer           observability.Tracer
}

// DefaultSettings matches the teacher's NewWriter() default-config
// convention: PDF 1.7, compressed streams, no validator, untagged.
func DefaultSettings() Settings {
	return Settings{
		Version:         Version17,
		CompressStreams: true,
		Producer:        "sealpdf",
	}
}

// SettingsBuilder is a fluent With...().Build() builder over Settings,
// grounded on writer/writer.go's WriterBuilder.
type SettingsBuilder struct {
	s Settings
}

func NewSettingsBuilder() *SettingsBuilder {
	return &SettingsBuilder{s: DefaultSettings()}
}

func (b *SettingsBuilder) WithVersion(v Version) *SettingsBuilder {
	b.s.Version = v
	return b
}

func (b *SettingsBuilder) WithASCIICompatible(v bool) *SettingsBuilder {
	b.s.ASCIICompatible = v
	return b
}

func (b *SettingsBuilder) WithCompressStreams(v bool) *SettingsBuilder {
	b.s.CompressStreams = v
	return b
}

func (b *SettingsBuilder) WithNoDeviceCS(v bool) *SettingsBuilder {
	b.s.NoDeviceCS = v
	return b
}

func (b *SettingsBuilder) WithEmbedXMP(v bool) *SettingsBuilder {
	b.s.EmbedXMP = v
	return b
}

func (b *SettingsBuilder) WithTagged(v bool) *SettingsBuilder {
	b.s.Tagged = v
	return b
}

func (b *SettingsBuilder) WithCMYKProfile(p *cmm.Profile) *SettingsBuilder {
	b.s.CMYKProfile = p
	return b
}

func (b *SettingsBuilder) WithValidator(v compliance.Validator) *SettingsBuilder {
	b.s.Validator = v
	return b
}

func (b *SettingsBuilder) WithProducer(p string) *SettingsBuilder {
	b.s.Producer = p
	return b
}

// WithLogger/WithTracer wire in the document's observability backends,
// grounded on writer/writer.go's WriterBuilder accepting the same pair.
// Left unset, SerializeContext defaults both to their Nop implementation.
func (b *SettingsBuilder) WithLogger(l observability.Logger) *SettingsBuilder {
	b.s.Logger = l
	return b
}

func (b *SettingsBuilder) WithTracer(t observability.Tracer) *SettingsBuilder {
	b.s.Tracer = t
	return b
}

func (b *SettingsBuilder) Build() Settings { return b.s }
