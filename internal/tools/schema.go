package tools

import "github.com/qri-io/jsonschema"

var urlOnlySchema = jsonschema.Must(`{
  "type": "object",
  "properties": {
    "url": { "type": "string", "description": "URL of the m3u8 playlist" }
  },
  "required": ["url"]
}`)

var downloadSchema = jsonschema.Must(`{
  "type": "object",
  "properties": {
    "url": { "type": "string", "description": "URL of the m3u8 stream" },
    "output_path": { "type": "string", "description": "Output file path" }
  },
  "required": ["url", "output_path"]
}`)

var probeSchema = jsonschema.Must(`{
  "type": "object",
  "properties": {
    "url": { "type": "string", "description": "URL of the m3u8 stream" }
  },
  "required": ["url"]
}`)

var captureUISchema = jsonschema.Must(`{
  "type": "object",
  "properties": {
    "url": { "type": "string", "description": "Optional URL to navigate to" }
  }
}`)
