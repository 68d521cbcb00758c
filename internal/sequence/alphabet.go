package sequence

import "strings"

// Alphabet is the symbol set shared by the sequences of an alignment.
//
// Every symbol maps to a bit set of the concrete residues it can stand for,
// so ambiguity codes such as R (A or G) or X (any amino acid) take part in
// the equivalence relation used for similarity counting.
type Alphabet struct {
	name       string
	masks      [256]uint32
	complement map[byte]byte
}

func newAlphabet(name string, masks map[byte]uint32, complement map[byte]byte) *Alphabet {
	a := &Alphabet{name: name, complement: complement}
	for c, m := range masks {
		a.masks[c] = m
		a.masks[toLower(c)] = m
	}
	return a
}

const (
	nA uint32 = 1 << iota
	nC
	nG
	nT
)

var iupacMasks = map[byte]uint32{
	'A': nA, 'C': nC, 'G': nG,
	'R': nA | nG, 'Y': nC | nT, 'S': nC | nG, 'W': nA | nT,
	'K': nG | nT, 'M': nA | nC, 'B': nC | nG | nT, 'D': nA | nG | nT,
	'H': nA | nC | nT, 'V': nA | nC | nG, 'N': nA | nC | nG | nT,
}

func nucleotideMasks(t byte) map[byte]uint32 {
	m := make(map[byte]uint32, len(iupacMasks)+1)
	for c, v := range iupacMasks {
		m[c] = v
	}
	m[t] = nT
	return m
}

func nucleotideComplement(t byte) map[byte]byte {
	return map[byte]byte{
		'A': t, t: 'A', 'C': 'G', 'G': 'C',
		'R': 'Y', 'Y': 'R', 'S': 'S', 'W': 'W',
		'K': 'M', 'M': 'K', 'B': 'V', 'V': 'B',
		'D': 'H', 'H': 'D', 'N': 'N',
	}
}

// aminoAcids fixes the bit of each standard residue.
const aminoAcids = "ARNDCQEGHILKMFPSTWYVUO*"

func proteinMasks() map[byte]uint32 {
	m := make(map[byte]uint32, len(aminoAcids)+4)
	var all uint32
	for i := 0; i < len(aminoAcids); i++ {
		m[aminoAcids[i]] = 1 << uint(i)
		if aminoAcids[i] != '*' {
			all |= 1 << uint(i)
		}
	}
	m['B'] = m['D'] | m['N']
	m['Z'] = m['E'] | m['Q']
	m['J'] = m['I'] | m['L']
	m['X'] = all
	return m
}

var (
	// DNA holds A, C, G, T and the IUPAC ambiguity codes.
	DNA = newAlphabet("DNA", nucleotideMasks('T'), nucleotideComplement('T'))
	// RNA holds A, C, G, U and the IUPAC ambiguity codes.
	RNA = newAlphabet("RNA", nucleotideMasks('U'), nucleotideComplement('U'))
	// Protein holds the 20 standard amino acids, U, O, the B/Z/J/X
	// ambiguity codes and the stop symbol '*'.
	Protein = newAlphabet("Protein", proteinMasks(), nil)
)

// Name returns the alphabet name.
func (a *Alphabet) Name() string {
	return a.name
}

func (a *Alphabet) String() string {
	return a.name
}

// Contains reports whether c is a symbol of the alphabet, in either case.
func (a *Alphabet) Contains(c byte) bool {
	return a.masks[c] != 0
}

// Equal reports whether two symbols are the same, ignoring case.
func (a *Alphabet) Equal(x, y byte) bool {
	return toUpper(x) == toUpper(y)
}

// Equivalent reports whether two symbols may denote the same residue.
// Identical symbols are always equivalent; ambiguity codes are equivalent to
// every residue they stand for.
func (a *Alphabet) Equivalent(x, y byte) bool {
	if a.Equal(x, y) {
		return true
	}
	return a.masks[x]&a.masks[y] != 0
}

// Complement returns the complementary symbol. The second result is false
// for alphabets without a complement (Protein) or unknown symbols.
func (a *Alphabet) Complement(c byte) (byte, bool) {
	if a.complement == nil {
		return 0, false
	}
	r, ok := a.complement[toUpper(c)]
	return r, ok
}

// IsNucleotide reports whether the alphabet has a complement relation.
func (a *Alphabet) IsNucleotide() bool {
	return a.complement != nil
}

// ParseAlphabet resolves an alphabet by case-insensitive name.
func ParseAlphabet(name string) (*Alphabet, error) {
	switch strings.ToLower(name) {
	case "", "dna":
		return DNA, nil
	case "rna":
		return RNA, nil
	case "protein", "aa", "amino":
		return Protein, nil
	default:
		return nil, &UnknownAlphabetError{Name: name}
	}
}

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
