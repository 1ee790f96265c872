package graphql

// systemQuery asks for one system with its profiles and rules. Every
// compliance field is evaluated for the same $systemId.
const systemQuery = `
query System($systemId: String!){
    system(id: $systemId) {
        id
        name
        profiles {
            name
            ref_id
            compliant(system_id: $systemId)
            rules_failed(system_id: $systemId)
            rules_passed(system_id: $systemId)
            last_scanned(system_id: $systemId)
            rules {
                title
                severity
                rationale
                ref_id
                description
                compliant(system_id: $systemId)
            }
        }
    }
}
`

const systemIDVar = "systemId"

// variables returns nil for an empty id so no variable is sent at all.
func variables(systemID string) map[string]any {
	if systemID == "" {
		return nil
	}
	return map[string]any{systemIDVar: systemID}
}
