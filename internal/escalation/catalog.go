package escalation

type slot struct {
	tier  Tier
	class Class
}

// pools holds one voice's templates. Missing slots are empty pools.
type pools map[slot][]string

// catalog is the (tier, class, voice) template table. A new voice is a new
// entry here; nothing else changes.
var catalog = map[Voice]pools{
	Opsec:  opsecPools,
	Occult: occultPools,
}

// Pool returns the templates for one (tier, class, voice) triple. The result
// is shared and must not be modified.
func Pool(v Voice, t Tier, c Class) []string {
	return catalog[v][slot{t, c}]
}
