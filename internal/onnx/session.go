package onnx

import (
	"errors"
	"fmt"
	"strings"
)

// Graph names used by Engine.
const (
	GraphAcoustic = "acoustic"
	GraphVocoder  = "vocoder"
)

// Session names an ONNX graph file on disk.
type Session struct {
	Name string
	Path string
}

// Sessions returns the acoustic and vocoder sessions for the given graph paths.
func Sessions(acousticPath, vocoderPath string) ([]Session, error) {
	var missing []string
	if strings.TrimSpace(acousticPath) == "" {
		missing = append(missing, GraphAcoustic)
	}
	if strings.TrimSpace(vocoderPath) == "" {
		missing = append(missing, GraphVocoder)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("graph path required for %s", strings.Join(missing, ", "))
	}

	return []Session{
		{Name: GraphAcoustic, Path: acousticPath},
		{Name: GraphVocoder, Path: vocoderPath},
	}, nil
}

// GraphIO names the tensors the engine feeds and reads. Exporters differ in
// how they name the Tacotron2 and MB-MelGAN signatures, so these are
// configurable.
type GraphIO struct {
	InputIDs     string
	InputLengths string
	SpeakerIDs   string
	MelOutput    string

	VocoderInput string
	AudioOutput  string
}

func DefaultGraphIO() GraphIO {
	return GraphIO{
		InputIDs:     "input_ids",
		InputLengths: "input_lengths",
		SpeakerIDs:   "speaker_ids",
		MelOutput:    "mel_outputs",
		VocoderInput: "mels",
		AudioOutput:  "audio",
	}
}

func (g GraphIO) validate() error {
	fields := []struct{ name, value string }{
		{"input ids", g.InputIDs},
		{"input lengths", g.InputLengths},
		{"speaker ids", g.SpeakerIDs},
		{"mel output", g.MelOutput},
		{"vocoder input", g.VocoderInput},
		{"audio output", g.AudioOutput},
	}

	var errs []error
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, fmt.Errorf("graph io: %s name is empty", f.name))
		}
	}

	return errors.Join(errs...)
}
