package interpretation

import "github.com/pharmaguard-server/internal/domain"

// Phenotype rule tables for the supported pharmacogenes, reproduced from
// published CPIC genotype-to-phenotype equivalences (cpicpgx.org).
//
// Star alleles are named haplotypes on one chromosome copy. *1 is the fully
// functional reference; loss-of-function alleles reduce or abolish enzyme
// activity, gain-of-function alleles (CYP2C19 *17, CYP2D6 *xN duplications)
// increase it. The diplotype determines total activity and thus the
// metabolizer phenotype.
//
// Keys are written in their natural clinical order; LookupPhenotype tries
// both orderings, so the authored table stays human-readable.
var phenotypeRules = map[string]map[string]string{

	// CYP2C19 metabolises clopidogrel, PPIs, SSRIs, voriconazole.
	// Loss-of-function: *2, *3. Gain-of-function: *17.
	"CYP2C19": {
		"*1/*1":   "NM – Normal Metabolizer",
		"*1/*2":   "IM – Intermediate Metabolizer",
		"*1/*3":   "IM – Intermediate Metabolizer",
		"*2/*2":   "PM – Poor Metabolizer",
		"*2/*3":   "PM – Poor Metabolizer",
		"*3/*3":   "PM – Poor Metabolizer",
		"*1/*17":  "RM – Rapid Metabolizer",
		"*2/*17":  "IM – Intermediate Metabolizer", // one LOF offsets one GOF
		"*17/*17": "UM – Ultrarapid Metabolizer",
	},

	// CYP2D6 metabolises codeine, tamoxifen, many antidepressants.
	// Loss-of-function: *3, *4, *5, *6. Gain-of-function: *xN duplications.
	"CYP2D6": {
		"*1/*1":   "NM – Normal Metabolizer",
		"*1/*2":   "NM – Normal Metabolizer",
		"*2/*2":   "NM – Normal Metabolizer",
		"*1/*4":   "IM – Intermediate Metabolizer",
		"*1/*5":   "IM – Intermediate Metabolizer",
		"*1/*6":   "IM – Intermediate Metabolizer",
		"*4/*4":   "PM – Poor Metabolizer",
		"*4/*5":   "PM – Poor Metabolizer",
		"*5/*5":   "PM – Poor Metabolizer",
		"*3/*4":   "PM – Poor Metabolizer",
		"*4/*6":   "PM – Poor Metabolizer",
		"*1/*1xN": "UM – Ultrarapid Metabolizer", // gene duplication
		"*1/*2xN": "UM – Ultrarapid Metabolizer",
	},

	// CYP2C9 metabolises warfarin, NSAIDs, phenytoin.
	// Loss-of-function: *2, *3.
	"CYP2C9": {
		"*1/*1": "NM – Normal Metabolizer",
		"*1/*2": "IM – Intermediate Metabolizer",
		"*1/*3": "IM – Intermediate Metabolizer",
		"*2/*2": "IM – Intermediate Metabolizer",
		"*2/*3": "PM – Poor Metabolizer",
		"*3/*3": "PM – Poor Metabolizer",
	},

	// SLCO1B1 is a hepatic uptake transporter affecting statin myopathy
	// risk, so it uses function-level labels instead of metabolizer codes.
	// Key variant: *5 (c.521T>C, rs4149056).
	"SLCO1B1": {
		"*1/*1":   "Normal Function",
		"*1/*5":   "Decreased Function – Increased Statin Myopathy Risk",
		"*1/*15":  "Decreased Function – Increased Statin Myopathy Risk",
		"*5/*5":   "Poor Function – High Statin Myopathy Risk",
		"*5/*15":  "Poor Function – High Statin Myopathy Risk",
		"*15/*15": "Poor Function – High Statin Myopathy Risk",
	},

	// TPMT inactivates thiopurines; deficiency causes azathioprine/6-MP
	// toxicity. Loss-of-function: *2, *3A, *3B, *3C.
	"TPMT": {
		"*1/*1":   "NM – Normal Metabolizer",
		"*1/*2":   "IM – Intermediate Metabolizer",
		"*1/*3A":  "IM – Intermediate Metabolizer",
		"*1/*3B":  "IM – Intermediate Metabolizer",
		"*1/*3C":  "IM – Intermediate Metabolizer",
		"*2/*3A":  "PM – Poor Metabolizer",
		"*3A/*3A": "PM – Poor Metabolizer",
		"*3A/*3C": "PM – Poor Metabolizer",
		"*3C/*3C": "PM – Poor Metabolizer",
	},

	// DPYD catabolises 5-fluorouracil; deficiency causes severe 5-FU
	// toxicity. Loss-of-function: *2A (splice variant), *13.
	"DPYD": {
		"*1/*1":   "NM – Normal Metabolizer",
		"*1/*2A":  "IM – Intermediate Metabolizer",
		"*1/*13":  "IM – Intermediate Metabolizer",
		"*2A/*2A": "PM – Poor Metabolizer",
		"*2A/*13": "PM – Poor Metabolizer",
		"*13/*13": "PM – Poor Metabolizer",
	},
}

// LookupPhenotype maps a gene and two alleles to a phenotype label. The
// lookup is order-independent: allele1/allele2 and allele2/allele1 return
// the same result. Unknown genes and unknown diplotypes return the UNKNOWN
// sentinel, never an error.
func LookupPhenotype(gene, allele1, allele2 string) string {
	geneRules, ok := phenotypeRules[gene]
	if !ok {
		return domain.PhenotypeUnknown
	}
	if phenotype, ok := geneRules[allele1+"/"+allele2]; ok {
		return phenotype
	}
	if phenotype, ok := geneRules[allele2+"/"+allele1]; ok {
		return phenotype
	}
	return domain.PhenotypeUnknown
}
