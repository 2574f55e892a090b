package app

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/go-logfmt/logfmt"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/JiscSD/openenum/openenum"
)

func NewCmdValues(out io.Writer, fs afero.Fs, config *Config) *cobra.Command {
	var file, enum, format string
	cmd := &cobra.Command{
		Use:   "values",
		Short: "List the variants of an enum, UNRECOGNIZED included",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doValues(cmd, out, fs, config, file, enum, format)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Schema document (path, s3:// or http(s):// URL)")
	cmd.Flags().StringVarP(&enum, "enum", "e", "", "Enum name, short or fully qualified")
	cmd.Flags().StringVar(&format, "format", "table", "Output format (table, json, logfmt)")

	return cmd
}

type variantRow struct {
	Ordinal int    `json:"ordinal"`
	Name    string `json:"name"`
	Number  *int32 `json:"number"`
}

func doValues(cmd *cobra.Command, out io.Writer, fs afero.Fs, config *Config, file, enum, format string) error {
	logger := logrus.WithField("schema", file)
	f, err := loadSchema(cmd.Context(), logger, fs, config, file)
	if err != nil {
		return err
	}
	if enum == "" {
		if len(f.Enums) != 1 {
			return errors.New("the schema declares several enums: use --enum")
		}
		enum = f.Enums[0].Name
	}
	e, ok := f.Enum(enum)
	if !ok {
		return errors.Errorf("enum %s not found in %s", enum, file)
	}
	d, err := f.Descriptor(e)
	if err != nil {
		return err
	}

	rows := variantRows(d)
	switch format {
	case "table":
		return writeTable(out, rows)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "logfmt":
		return writeLogfmt(out, d.FullName(), rows)
	}
	return errors.Errorf("unknown format %q", format)
}

func variantRows(d *openenum.Descriptor) []variantRow {
	vs := d.Variants()
	rows := make([]variantRow, len(vs))
	for i, v := range vs {
		rows[i] = variantRow{Ordinal: v.Ordinal(), Name: v.Name()}
		if n, err := v.Number(); err == nil {
			num := int32(n)
			rows[i].Number = &num
		}
	}
	return rows
}

func writeTable(out io.Writer, rows []variantRow) error {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ORDINAL\tNAME\tNUMBER")
	for _, r := range rows {
		num := "-"
		if r.Number != nil {
			num = fmt.Sprint(*r.Number)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", r.Ordinal, r.Name, num)
	}
	return w.Flush()
}

func writeLogfmt(out io.Writer, enum string, rows []variantRow) error {
	enc := logfmt.NewEncoder(out)
	for _, r := range rows {
		var num interface{}
		if r.Number != nil {
			num = *r.Number
		}
		if err := enc.EncodeKeyvals("enum", enum, "ordinal", r.Ordinal, "name", r.Name, "number", num); err != nil {
			return err
		}
		if err := enc.EndRecord(); err != nil {
			return err
		}
	}
	return nil
}
