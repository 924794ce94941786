package server

import (
	"github.com/invopop/jsonschema"
)

// ProtocolSchema reflects the wire types into a JSON schema so client
// developers can validate their message handling without reading Go source.
// Served by the diagnostics HTTP surface.
func ProtocolSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}

	joinSchema := reflector.Reflect(new(joinResponse))
	joinSchema.Title = "Join Response"
	joinSchema.Description = "First text frame sent after the WebSocket upgrade."

	clientSchema := reflector.Reflect(new(clientMessage))
	clientSchema.Title = "Client Message"
	clientSchema.Description = "Text frames accepted from clients."

	frameSchema := reflector.Reflect(new(WorldSnapshot))
	frameSchema.Title = "State Snapshot"
	frameSchema.Description = "Per-tick actor snapshot carried inside binary state frames."

	root := &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Duskhall Wire Protocol",
		Description: "Messages exchanged between the Duskhall server and its clients.",
		OneOf: []*jsonschema.Schema{
			joinSchema,
			clientSchema,
			frameSchema,
		},
	}
	return root
}
