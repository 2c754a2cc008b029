package commands

import (
	"context"

	"github.com/struktos/struktgen/internal/metadata"
)

// MetadataCommand prints the metadata a project's generators would use
type MetadataCommand struct {
	output Output
	flags  *Flags
	load   func(ctx context.Context, projectRoot string) (*metadata.Metadata, error)
}

func NewMetadataCommand(flags *Flags) *MetadataCommand {
	return &MetadataCommand{
		output: &defaultOutput{},
		flags:  flags,
		load:   metadata.LoadContext,
	}
}

func (mc *MetadataCommand) Execute(ctx context.Context, format string) error {
	if format == "" {
		format = FormatJSON
	}

	md, err := mc.load(ctx, projectRoot(mc.flags))
	if err != nil {
		return err
	}

	data, err := encodeMetadata(md, format)
	if err != nil {
		return err
	}
	mc.output.Printf("%s", data)
	return nil
}
