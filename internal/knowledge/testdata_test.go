package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "fallas": [
    {
      "nombre": "Fusible quemado",
      "atributos": ["sin_energia", "olor_quemado"],
      "causas": ["Sobrecarga"],
      "soluciones": ["Reemplazar el fusible"],
      "referencia": "Manual 3.2"
    },
    {
      "nombre": "Cable desconectado",
      "atributos": ["sin_energia"],
      "causas": "Cable flojo",
      "soluciones": "Conectar el cable"
    }
  ],
  "mapeo_palabras_clave": {
    "sin_energia": ["No Enciende", "muerto"],
    "olor_quemado": ["huele a quemado"]
  },
  "preguntas": {
    "olor_quemado": "¿Huele a quemado?"
  }
}`

const sampleYAML = `
fallas:
  - nombre: Fusible quemado
    atributos: [sin_energia, olor_quemado]
    causas: [Sobrecarga]
    soluciones: [Reemplazar el fusible]
    referencia: Manual 3.2
  - nombre: Cable desconectado
    atributos: [sin_energia]
    causas: Cable flojo
    soluciones: Conectar el cable
mapeo_palabras_clave:
  sin_energia: [muerto, no enciende]
  olor_quemado: [huele a quemado]
preguntas:
  olor_quemado: "¿Huele a quemado?"
`

const sampleTOML = `
[[fallas]]
nombre = "Fusible quemado"
atributos = ["sin_energia", "olor_quemado"]
causas = ["Sobrecarga"]
soluciones = ["Reemplazar el fusible"]
referencia = "Manual 3.2"

[[fallas]]
nombre = "Cable desconectado"
atributos = ["sin_energia"]
causas = "Cable flojo"
soluciones = "Conectar el cable"

[mapeo_palabras_clave]
sin_energia = ["no enciende", "muerto"]
olor_quemado = ["huele a quemado"]

[preguntas]
olor_quemado = "¿Huele a quemado?"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
