package schema

import (
	"path"
	"strings"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/JiscSD/openenum/features"
)

// parseProto reads the enums of a single .proto file. Imports are not
// resolved, so the file must be self-contained.
func parseProto(name string, data []byte) (*File, error) {
	filename := path.Base(locationPath(name))
	p := protoparse.Parser{
		Accessor:              protoparse.FileContentsFromMap(map[string]string{filename: string(data)}),
		IncludeSourceCodeInfo: true,
	}
	fds, err := p.ParseFiles(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "schema %s could not be parsed", name)
	}
	fd := fds[0]
	fdp := fd.AsFileDescriptorProto()

	f := &File{
		Package:   fd.GetPackage(),
		GoPackage: goPackageOption(fdp),
	}
	switch fdp.GetSyntax() {
	case "", "proto2":
		f.Edition = features.EditionProto2.String()
	case "proto3":
		f.Edition = features.EditionProto3.String()
	default:
		f.Edition = features.Edition(fdp.GetEdition()).String()
	}

	for _, ed := range fd.GetEnumTypes() {
		f.Enums = append(f.Enums, enumFromProto("", ed))
	}
	var walk func(prefix string, mds []*desc.MessageDescriptor)
	walk = func(prefix string, mds []*desc.MessageDescriptor) {
		for _, md := range mds {
			p := prefix + md.GetName() + "_"
			for _, ed := range md.GetNestedEnumTypes() {
				f.Enums = append(f.Enums, enumFromProto(p, ed))
			}
			walk(p, md.GetNestedMessageTypes())
		}
	}
	walk("", fd.GetMessageTypes())
	return f, nil
}

func goPackageOption(fdp *descriptorpb.FileDescriptorProto) string {
	gp := fdp.GetOptions().GetGoPackage()
	if gp == "" {
		return ""
	}
	if i := strings.IndexByte(gp, ';'); i >= 0 {
		return gp[i+1:]
	}
	return path.Base(gp)
}

func enumFromProto(prefix string, ed *desc.EnumDescriptor) Enum {
	edp := ed.AsEnumDescriptorProto()
	e := Enum{
		Name:          prefix + ed.GetName(),
		Comment:       comment(ed.GetSourceInfo()),
		AllowAlias:    edp.GetOptions().GetAllowAlias(),
		ReservedNames: edp.GetReservedName(),
	}
	switch edp.GetOptions().GetFeatures().GetEnumType() {
	case descriptorpb.FeatureSet_OPEN:
		e.Features = map[string]interface{}{FeatureEnumType: features.EnumTypeOpen.String()}
	case descriptorpb.FeatureSet_CLOSED:
		e.Features = map[string]interface{}{FeatureEnumType: features.EnumTypeClosed.String()}
	}
	for _, r := range edp.GetReservedRange() {
		e.ReservedRanges = append(e.ReservedRanges, Range{Start: r.GetStart(), End: r.GetEnd()})
	}
	for _, vd := range ed.GetValues() {
		e.Values = append(e.Values, Value{
			Name:    vd.GetName(),
			Number:  vd.GetNumber(),
			Comment: comment(vd.GetSourceInfo()),
		})
	}
	return e
}

func comment(loc *descriptorpb.SourceCodeInfo_Location) string {
	return strings.TrimSpace(loc.GetLeadingComments())
}
