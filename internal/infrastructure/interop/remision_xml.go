// Package interop genera la remisión XML que acompaña cada envío, para que
// los sistemas de farmacia de los hospitales la ingieran. La huella digital
// (SHA-384 sobre el documento canonicalizado C14N) permite verificar que la
// remisión no fue alterada en tránsito.
package interop

import (
	"bytes"
	"crypto/sha512"
	"encoding/hex"
	"encoding/xml"
	"fmt"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	"github.com/intercambiomed/intercambio-api/internal/application/exchange"
)

var _ exchange.RemisionBuilder = (*RemisionXMLBuilder)(nil)

// RemisionXMLBuilder implementa exchange.RemisionBuilder con etree.
type RemisionXMLBuilder struct{}

func NewRemisionXMLBuilder() *RemisionXMLBuilder {
	return &RemisionXMLBuilder{}
}

// Build arma el documento de remisión y calcula su huella SHA-384 sobre la
// forma canónica C14N. El digest es determinista: mismos datos, misma huella.
func (b *RemisionXMLBuilder) Build(data exchange.RemisionData) ([]byte, string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rem := doc.CreateElement("Remision")
	rem.CreateAttr("xmlns", "urn:intercambiomed:remision:1.0")
	rem.CreateAttr("id", data.ShipmentID)

	origen := rem.CreateElement("Origen")
	origen.CreateElement("Tipo").SetText(data.SourceType)
	origen.CreateElement("ID").SetText(data.SourceID)

	emisor := rem.CreateElement("Emisor")
	emisor.CreateElement("NIT").SetText(data.EmisorNIT)
	emisor.CreateElement("Nombre").SetText(data.EmisorNombre)

	receptor := rem.CreateElement("Receptor")
	receptor.CreateElement("NIT").SetText(data.ReceptorNIT)
	receptor.CreateElement("Nombre").SetText(data.ReceptorNombre)

	med := rem.CreateElement("Medicamento")
	med.CreateElement("CUM").SetText(data.MedicamentoCUM)
	med.CreateElement("Nombre").SetText(data.MedicamentoNombre)
	med.CreateElement("Cantidad").SetText(data.Cantidad.StringFixed(2))
	med.CreateElement("Unidad").SetText(data.Unidad)

	log := rem.CreateElement("Logistica")
	log.CreateElement("Transportadora").SetText(data.Transportadora)
	log.CreateElement("Estado").SetText(data.Estado)
	log.CreateElement("FechaRecogida").SetText(data.FechaRecogida.UTC().Format("2006-01-02T15:04:05Z"))
	log.CreateElement("FechaEstimadaEntrega").SetText(data.FechaEstimadaEntrega.UTC().Format("2006-01-02T15:04:05Z"))

	xmlBytes, err := doc.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("interop: serializar remisión: %w", err)
	}

	canonical, err := canonicalizeXML(xmlBytes)
	if err != nil {
		return nil, "", fmt.Errorf("interop: canonicalizar remisión: %w", err)
	}
	digest := sha512.Sum384(canonical)

	return xmlBytes, hex.EncodeToString(digest[:]), nil
}

func canonicalizeXML(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}
