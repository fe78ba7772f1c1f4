package assets

import _ "embed"

// ProvidersData holds the raw provider/model catalog bundled with the app.
//
//go:embed providers.json
var ProvidersData []byte
