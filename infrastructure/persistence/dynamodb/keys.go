// Package dynamodb implements the ontology persistence ports (OntologyStore,
// EdgeReader, VertexReader, UnitOfWork) against a single DynamoDB table,
// following a single-table PK/SK + GSI layout and attributevalue marshaling
// idiom.
//
// Item families:
//
//	TYPE#<kind>#<base_url>   / V#<version>   -- one row per type version
//	TYPE#<kind>#<base_url>   / LATEST        -- pointer row, current version
//	REF#<kind>#<source id>   / TARGET#<id>   -- one outbound reference row
//
// GSI1 (latestIndexName) projects LATEST pointer rows by kind so ResolveFilter
// can Query all live base urls of a kind without a table Scan.
//
// GSI2 (referenceKindIndexName) projects reference rows by kind, source
// ontology id as sort key, so a traversal can Query every reference row of a
// kind in one call instead of one Query per source.
package dynamodb

import (
	"fmt"
	"strconv"

	"ontology-resolver/application/ports"
	"ontology-resolver/domain/ontology/valueobjects"
)

func typePK(kind ports.TypeKind, baseURL string) string {
	return fmt.Sprintf("TYPE#%s#%s", kind, baseURL)
}

func versionSK(version uint32) string {
	return fmt.Sprintf("V#%d", version)
}

const latestSK = "LATEST"

func referencePK(kind valueobjects.ReferenceKind, sourceID valueobjects.OntologyID) string {
	return fmt.Sprintf("REF#%s#%d", kind, int64(sourceID))
}

func referenceSK(targetID valueobjects.OntologyID) string {
	return fmt.Sprintf("TARGET#%d", int64(targetID))
}

func kindGSI1PK(kind ports.TypeKind) string {
	return fmt.Sprintf("KIND#%s", kind)
}

// referenceKindGSIPK and referenceKindGSISK key GSI2 (referenceKindIndex),
// which projects reference rows by kind with source ontology id as sort
// key. A traversal reads every reference row of a kind in one Query against
// this index and filters to the sources it actually admitted, instead of
// issuing one Query per source against referencePK.
func referenceKindGSIPK(kind valueobjects.ReferenceKind) string {
	return fmt.Sprintf("REFKIND#%s", kind)
}

func referenceKindGSISK(sourceID valueobjects.OntologyID) string {
	return fmt.Sprintf("SOURCE#%019d", int64(sourceID))
}

func parseOntologyID(s string) (valueobjects.OntologyID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return valueobjects.OntologyID(n), nil
}
