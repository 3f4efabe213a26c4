// Package scene turns serialized Unity scene files into standard YAML.
//
// Unity writes one YAML document per object but declares the !u! tag
// handle only once, at the top of the file, and appends words such as
// "stripped" after some document anchors. Both break ordinary YAML
// parsers. Convert repairs the stream; Validate and Summarize parse it.
package scene
