package dist

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"net/textproto"
	"os"
	"strings"
)

// Metadata is the core-metadata header block of a distribution: the
// `*.dist-info/METADATA` file of a wheel, or the `PKG-INFO` file of an sdist.
// Both are the same email-header format.
type Metadata struct {
	// Fields holds the headers; multi-use fields like "Classifier" keep
	// every value.  Keys are in canonical-cased form ("Metadata-Version").
	Fields map[string][]string
	// Description is the message body, if the metadata spells the long
	// description that way rather than as a header.
	Description string
}

// Get returns the first value of a field, or "".
func (md *Metadata) Get(key string) string {
	vals := md.Fields[textproto.CanonicalMIMEHeaderKey(key)]
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

func (md *Metadata) Name() string    { return md.Get("Name") }
func (md *Metadata) Version() string { return md.Get("Version") }

// ParseMetadata parses a core-metadata file (METADATA or PKG-INFO).
func ParseMetadata(r io.Reader) (*Metadata, error) {
	tp := textproto.NewReader(bufio.NewReader(r))
	hdr, err := tp.ReadMIMEHeader()
	if err != nil && err != io.EOF {
		return nil, err
	}

	body, err := io.ReadAll(tp.R)
	if err != nil {
		return nil, err
	}

	md := &Metadata{
		Fields:      hdr,
		Description: strings.TrimSpace(string(body)),
	}
	if md.Get("Metadata-Version") == "" || md.Name() == "" || md.Version() == "" {
		return nil, fmt.Errorf("core metadata is missing required fields")
	}
	return md, nil
}

// ReadMetadata extracts and parses the core metadata out of the artifact's
// archive.
func (art Artifact) ReadMetadata() (_ *Metadata, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("%s: %w", art.Name, err)
		}
	}()
	switch art.Kind {
	case KindWheel:
		return readWheelMetadata(art.Path)
	case KindSdist:
		if strings.HasSuffix(art.Name, ".zip") {
			return readZipSdistMetadata(art.Path)
		}
		return readTarSdistMetadata(art.Path)
	default:
		return nil, fmt.Errorf("unknown distribution kind %q", art.Kind)
	}
}

func readWheelMetadata(path string) (*Metadata, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = zr.Close()
	}()

	for _, file := range zr.File {
		dir, base := splitZipName(file.Name)
		if base == "METADATA" && strings.HasSuffix(dir, ".dist-info") && !strings.Contains(dir, "/") {
			fp, err := file.Open()
			if err != nil {
				return nil, err
			}
			md, err := ParseMetadata(fp)
			_ = fp.Close()
			return md, err
		}
	}
	return nil, fmt.Errorf("no *.dist-info/METADATA member")
}

// Sdists unpack to a single "{name}-{version}/" root directory, with PKG-INFO
// directly inside it.
func readTarSdistMetadata(path string) (*Metadata, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = fp.Close()
	}()

	gzr, err := gzip.NewReader(fp)
	if err != nil {
		return nil, err
	}
	tr := tar.NewReader(gzr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		dir, base := splitZipName(strings.TrimPrefix(hdr.Name, "./"))
		if base == "PKG-INFO" && !strings.Contains(dir, "/") {
			return ParseMetadata(tr)
		}
	}
	return nil, fmt.Errorf("no PKG-INFO member")
}

func readZipSdistMetadata(path string) (*Metadata, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = zr.Close()
	}()

	for _, file := range zr.File {
		dir, base := splitZipName(file.Name)
		if base == "PKG-INFO" && !strings.Contains(dir, "/") {
			fp, err := file.Open()
			if err != nil {
				return nil, err
			}
			md, err := ParseMetadata(fp)
			_ = fp.Close()
			return md, err
		}
	}
	return nil, fmt.Errorf("no PKG-INFO member")
}

func splitZipName(name string) (dir, base string) {
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		return name[:idx], name[idx+1:]
	}
	return "", name
}
