package save

import "github.com/santhosh-tekuri/jsonschema/v5"

// schemaJSON describes the dump format. The maxima mirror grid.MaxCells
// and engine.MaxRNGPosition. Cross-field rules (grid area, cell count,
// entity ids) are checked in Load and Apply.
const schemaJSON = `{
  "type": "object",
  "required": ["version", "round", "rng_seed", "rng_position", "grid", "agents", "items"],
  "properties": {
    "version": {"const": 1},
    "title": {"type": "string"},
    "round": {"type": "integer", "minimum": 0},
    "rng_seed": {"type": "integer"},
    "rng_position": {"type": "integer", "minimum": 0, "maximum": 67108864},
    "grid": {
      "type": "object",
      "required": ["width", "height", "cells"],
      "properties": {
        "width": {"type": "integer", "minimum": 0, "maximum": 16777216},
        "height": {"type": "integer", "minimum": 0, "maximum": 16777216},
        "cells": {"type": "array", "items": {"type": "integer", "minimum": 0}}
      }
    },
    "agents": {"type": "array", "items": {"$ref": "#/$defs/agent"}},
    "items": {"type": "array", "items": {"$ref": "#/$defs/item"}}
  },
  "$defs": {
    "location": {
      "type": "object",
      "required": ["kind"],
      "properties": {
        "kind": {"enum": ["pos", "item", "agent"]},
        "x": {"type": "number"},
        "y": {"type": "number"},
        "id": {"type": "integer", "minimum": 0}
      }
    },
    "agent": {
      "type": "object",
      "required": ["id", "name", "location", "action_result"],
      "properties": {
        "id": {"type": "integer", "minimum": 0},
        "name": {"type": "string"},
        "symbol": {"type": "string", "maxLength": 1},
        "location": {"$ref": "#/$defs/location"},
        "action_result": {"type": "integer"}
      }
    },
    "item": {
      "type": "object",
      "required": ["id", "name", "location"],
      "properties": {
        "id": {"type": "integer", "minimum": 0},
        "name": {"type": "string"},
        "location": {"$ref": "#/$defs/location"}
      }
    }
  }
}`

var schema = jsonschema.MustCompileString("gridsim-save.schema.json", schemaJSON)
