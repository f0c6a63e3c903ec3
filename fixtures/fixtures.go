package fixtures

import (
	"embed"
)

// Artifacts holds the compiled contract artifacts shipped with the wrappers,
// one JSON document per contract under artifacts/.
//
//go:embed artifacts/*.json
var Artifacts embed.FS

//go:embed artifacts/OrderValidator.json
var OrderValidatorArtifact []byte

//go:embed config/config.yaml.template
var ConfigTemplate []byte
