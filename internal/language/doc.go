// Package language normalizes the language codes accepted on the command line
// and reported by the recognition pipeline.
//
// WhisperX speaks ISO 639-1. Callers may hand us BCP-47 tags ("en-US"), ISO
// 639-2 codes ("eng") or plain English words ("english"); Normalize folds all
// of them to the two-letter form. The package also carries the table of
// languages that have a default forced-alignment model, which gates the
// alignment and diarization stages of a prediction.
package language
