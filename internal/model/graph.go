package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// ErrNoGraph is returned when an extracted archive holds no ONNX graph.
// The released archives ship TensorFlow SavedModel and TFLite exports,
// which must be converted (for example with tf2onnx) before use.
var ErrNoGraph = errors.New("no ONNX graph found")

// FindGraph returns the single .onnx file below dir.
func FindGraph(fs afero.Fs, dir string) (string, error) {
	var found []string
	var savedModel, tflite string
	err := afero.Walk(fs, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch {
		case strings.EqualFold(filepath.Ext(p), ".onnx"):
			found = append(found, p)
		case info.Name() == "saved_model.pb" && savedModel == "":
			savedModel = filepath.Dir(p)
		case strings.EqualFold(filepath.Ext(p), ".tflite") && tflite == "":
			tflite = p
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scan %s: %w", dir, err)
	}

	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w in %s: %s", ErrNoGraph, dir, conversionHint(dir, savedModel, tflite))
	case 1:
		return found[0], nil
	default:
		sort.Strings(found)
		return "", fmt.Errorf("multiple ONNX graphs in %s: %s", dir, strings.Join(found, ", "))
	}
}

// GraphPath is where a converted graph for the archive extracted to dir is
// expected: dir/<base of dir>.onnx.
func GraphPath(dir string) string {
	return filepath.Join(dir, filepath.Base(dir)+".onnx")
}

func conversionHint(dir, savedModel, tflite string) string {
	out := GraphPath(dir)

	switch {
	case savedModel != "":
		return fmt.Sprintf("convert it with `python -m tf2onnx.convert --saved-model %s --opset 13 --output %s`", savedModel, out)
	case tflite != "":
		return fmt.Sprintf("convert it with `python -m tf2onnx.convert --tflite %s --opset 13 --output %s`", tflite, out)
	default:
		return fmt.Sprintf("expected %s; export the model with tf2onnx (`python -m tf2onnx.convert --saved-model <dir> --opset 13 --output %s`)", out, out)
	}
}
