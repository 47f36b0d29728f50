// Package whisperx runs the WhisperX command-line transcriber and loads the
// word-level timings it writes.
//
// The command is built from config.WhisperX (model, compute type, alignment
// model, language, VAD, diarization, decoding options). Output is always
// requested as JSON so LoadWords can flatten segments into the ordered word
// stream the subtitle pipeline consumes.
package whisperx
