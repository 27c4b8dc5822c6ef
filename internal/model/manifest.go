package model

import (
	"fmt"
	"net/url"

	"github.com/example/go-german-tts/internal/config"
	"github.com/example/go-german-tts/internal/onnx"
)

// Archive is one released model tarball.
type Archive struct {
	Name   string // file name under the base URL
	Subdir string // cache subdirectory the archive extracts into
	Graph  string // onnx.GraphAcoustic or onnx.GraphVocoder
	SHA256 string // optional pinned checksum of the tarball
}

// URL joins the archive name onto baseURL.
func (a Archive) URL(baseURL string) (string, error) {
	u, err := url.JoinPath(baseURL, a.Name)
	if err != nil {
		return "", fmt.Errorf("archive url for %s: %w", a.Name, err)
	}

	return u, nil
}

type Manifest struct {
	Variant  string
	Archives []Archive
}

// Archive returns the archive that provides the named graph.
func (m Manifest) Archive(graph string) (Archive, bool) {
	for _, a := range m.Archives {
		if a.Graph == graph {
			return a, true
		}
	}

	return Archive{}, false
}

// PinnedManifest lists the archives of a model variant. The upstream
// releases publish no checksums, so SHA256 is left empty.
func PinnedManifest(variant string) (Manifest, error) {
	v, err := config.NormalizeVariant(variant)
	if err != nil {
		return Manifest{}, err
	}

	switch v {
	case config.VariantFull:
		return Manifest{
			Variant: v,
			Archives: []Archive{
				{Name: "german-tts-tacotron2.tar.gz", Subdir: "german-tts-tacotron2", Graph: onnx.GraphAcoustic},
				{Name: "german-tts-mbmelgan.tar.gz", Subdir: "german-tts-mbmelgan", Graph: onnx.GraphVocoder},
			},
		}, nil
	case config.VariantLite:
		return Manifest{
			Variant: v,
			Archives: []Archive{
				{Name: "german-tts-tacotron2-lite.tar.gz", Subdir: "german-tts-tacotron2-lite", Graph: onnx.GraphAcoustic},
				{Name: "german-tts-mbmelgan-lite.tar.gz", Subdir: "german-tts-mbmelgan-lite", Graph: onnx.GraphVocoder},
			},
		}, nil
	default:
		return Manifest{}, fmt.Errorf("no pinned manifest for variant %q", variant)
	}
}
