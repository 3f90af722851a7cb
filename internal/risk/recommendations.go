package risk

import (
	"strings"

	"github.com/pharmaguard-server/internal/domain"
)

// Deterministic rule-based clinical guidance, keyed "DRUG:RISK_LABEL".
// Every supported drug has entries for all five risk labels, and any
// combination not listed falls back to a "seek specialist review" entry.
// Guidance text follows published CPIC guidelines (cpicpgx.org) and is
// reproduced faithfully from the reference dataset.

const (
	unknownAction         = "Seek specialist review"
	unknownRecommendation = "Pharmacogenomic result is inconclusive. Consult clinical pharmacologist."
	unknownMonitoring     = "Monitor clinically and consider repeat genotyping."
)

var fallbackRecommendation = domain.ClinicalRecommendation{
	Action:         unknownAction,
	Recommendation: unknownRecommendation,
	Monitoring:     unknownMonitoring,
}

var recommendations = map[string]domain.ClinicalRecommendation{

	// CODEINE (CYP2D6). CYP2D6 converts codeine to morphine: PM means no
	// conversion and no analgesia, UM means toxic morphine accumulation.
	"CODEINE:Safe": {
		Action:         "Proceed with standard dosing",
		Recommendation: "Codeine can be used at standard doses. No dose adjustment required.",
		Monitoring:     "Standard pain reassessment at follow-up.",
	},
	"CODEINE:Adjust Dosage": {
		Action:         "Consider dose reduction or alternative",
		Recommendation: "Reduced CYP2D6 activity may lower morphine conversion. Start at 50% of standard dose or switch to a non-codeine analgesic.",
		Monitoring:     "Monitor analgesic efficacy and sedation. Reassess within 48 hours.",
	},
	"CODEINE:Ineffective": {
		Action:         "Avoid codeine — use alternative analgesic",
		Recommendation: "CYP2D6 Poor Metabolizer: codeine cannot be converted to active morphine. Drug will be ineffective.",
		Monitoring:     "Switch to a non-opioid analgesic (e.g., ibuprofen, paracetamol) or a non-CYP2D6-dependent opioid (e.g., oxycodone).",
	},
	"CODEINE:Toxic": {
		Action:         "Contraindicated — use alternative analgesic immediately",
		Recommendation: "CYP2D6 Ultrarapid Metabolizer: rapid conversion to morphine creates risk of respiratory depression and death at standard doses.",
		Monitoring:     "Do not use codeine. Use a non-CYP2D6-dependent analgesic. Monitor for opioid toxicity signs if already administered.",
	},
	"CODEINE:Unknown": fallbackRecommendation,

	// WARFARIN (CYP2C9). Reduced clearance of S-warfarin elevates INR.
	"WARFARIN:Safe": {
		Action:         "Proceed with standard initiation protocol",
		Recommendation: "CYP2C9 Normal Metabolizer. Use standard warfarin initiation dose per local protocol.",
		Monitoring:     "Monitor INR at day 3, day 7, then weekly until stable.",
	},
	"WARFARIN:Adjust Dosage": {
		Action:         "Reduce initial warfarin dose by 25–50%",
		Recommendation: "Reduced CYP2C9 activity will slow warfarin clearance. Initiate at 25–50% of standard dose to avoid supratherapeutic INR.",
		Monitoring:     "Increase INR monitoring frequency: days 3, 5, 7, 10. Target INR 2.0–3.0.",
	},
	"WARFARIN:Toxic": {
		Action:         "Significantly reduce dose or consider alternative anticoagulant",
		Recommendation: "CYP2C9 Poor Metabolizer: severely impaired warfarin clearance. Risk of major bleeding at standard doses. Reduce initial dose by ≥50% or switch to a DOAC.",
		Monitoring:     "Daily INR monitoring until stable. Watch for bleeding signs. Consider haematology review.",
	},
	"WARFARIN:Ineffective": {
		Action:         "Proceed with standard dosing",
		Recommendation: "No evidence of reduced warfarin efficacy from CYP2C9 status alone.",
		Monitoring:     "Standard INR monitoring.",
	},
	"WARFARIN:Unknown": fallbackRecommendation,

	// CLOPIDOGREL (CYP2C19). CYP2C19 activates the prodrug: PM means no
	// active metabolite and no platelet inhibition.
	"CLOPIDOGREL:Safe": {
		Action:         "Proceed with standard clopidogrel therapy",
		Recommendation: "CYP2C19 Normal/Rapid Metabolizer. Standard clopidogrel dose provides adequate platelet inhibition.",
		Monitoring:     "Routine cardiovascular monitoring per indication.",
	},
	"CLOPIDOGREL:Adjust Dosage": {
		Action:         "Consider prasugrel or ticagrelor as alternative",
		Recommendation: "Reduced CYP2C19 activity may lead to suboptimal platelet inhibition. Consider switching to prasugrel or ticagrelor if clinically indicated.",
		Monitoring:     "Platelet function testing recommended if clopidogrel is continued.",
	},
	"CLOPIDOGREL:Ineffective": {
		Action:         "Avoid clopidogrel — use prasugrel or ticagrelor",
		Recommendation: "CYP2C19 Poor Metabolizer: clopidogrel cannot be adequately activated. Risk of stent thrombosis or adverse cardiovascular events.",
		Monitoring:     "Switch to prasugrel 10 mg/day or ticagrelor 90 mg twice daily per cardiology guidance.",
	},
	"CLOPIDOGREL:Toxic": {
		Action:         "Proceed with standard dosing",
		Recommendation: "No toxicity risk identified from CYP2C19 status for clopidogrel.",
		Monitoring:     "Standard monitoring.",
	},
	"CLOPIDOGREL:Unknown": fallbackRecommendation,

	// SIMVASTATIN (SLCO1B1). Reduced hepatic uptake raises plasma levels
	// and myopathy risk.
	"SIMVASTATIN:Safe": {
		Action:         "Proceed with standard simvastatin dosing",
		Recommendation: "SLCO1B1 Normal Function. Standard simvastatin dose is appropriate.",
		Monitoring:     "Annual CK monitoring. Report unexplained muscle pain immediately.",
	},
	"SIMVASTATIN:Adjust Dosage": {
		Action:         "Reduce simvastatin dose or switch statin",
		Recommendation: "Decreased SLCO1B1 function increases simvastatin plasma exposure. Use ≤20 mg/day or switch to a lower-risk statin (pravastatin, rosuvastatin).",
		Monitoring:     "CK levels at baseline and 3 months. Counsel patient on myopathy symptoms.",
	},
	"SIMVASTATIN:Toxic": {
		Action:         "Avoid simvastatin — switch to pravastatin or rosuvastatin",
		Recommendation: "SLCO1B1 Poor Function: high risk of simvastatin-induced myopathy and rhabdomyolysis at standard doses.",
		Monitoring:     "Switch to pravastatin 40 mg or rosuvastatin 20 mg. Baseline CK. Urgent review if muscle symptoms develop.",
	},
	"SIMVASTATIN:Ineffective": {
		Action:         "Proceed with standard dosing",
		Recommendation: "No efficacy concern identified from SLCO1B1 status.",
		Monitoring:     "Standard monitoring.",
	},
	"SIMVASTATIN:Unknown": fallbackRecommendation,

	// AZATHIOPRINE (TPMT). TPMT deficiency causes toxic 6-TGN accumulation
	// and myelosuppression.
	"AZATHIOPRINE:Safe": {
		Action:         "Proceed with standard azathioprine dosing",
		Recommendation: "TPMT Normal Metabolizer. Standard dose is appropriate.",
		Monitoring:     "CBC monthly for 3 months, then every 3 months. LFTs at baseline.",
	},
	"AZATHIOPRINE:Adjust Dosage": {
		Action:         "Reduce azathioprine dose by 30–70%",
		Recommendation: "Reduced TPMT activity increases thiopurine metabolite accumulation. Reduce dose by 30–70% and titrate to clinical response.",
		Monitoring:     "CBC weekly for first 4 weeks, then monthly. Monitor for leukopenia.",
	},
	"AZATHIOPRINE:Toxic": {
		Action:         "Contraindicated — use alternative immunosuppressant",
		Recommendation: "TPMT Poor Metabolizer: azathioprine at any standard dose will cause life-threatening myelosuppression.",
		Monitoring:     "Do not use azathioprine. Consider mycophenolate mofetil or another non-thiopurine agent. Haematology review required.",
	},
	"AZATHIOPRINE:Ineffective": {
		Action:         "Proceed with standard dosing",
		Recommendation: "No efficacy concern from TPMT status alone.",
		Monitoring:     "Standard CBC monitoring.",
	},
	"AZATHIOPRINE:Unknown": fallbackRecommendation,

	// FLUOROURACIL (DPYD). DPYD deficiency causes severe 5-FU accumulation.
	"FLUOROURACIL:Safe": {
		Action:         "Proceed with standard 5-FU dosing",
		Recommendation: "DPYD Normal Metabolizer. Standard 5-FU dose and schedule are appropriate.",
		Monitoring:     "Standard oncology monitoring: CBC, mucositis assessment, hand-foot syndrome review.",
	},
	"FLUOROURACIL:Adjust Dosage": {
		Action:         "Reduce 5-FU starting dose by 25–50%",
		Recommendation: "Reduced DPYD activity will impair 5-FU clearance. Reduce starting dose by 25–50% and escalate only if tolerated.",
		Monitoring:     "Close toxicity monitoring: CBC weekly, mucositis, diarrhoea, and neurotoxicity assessment each cycle.",
	},
	"FLUOROURACIL:Toxic": {
		Action:         "Contraindicated at standard dose — oncology review required",
		Recommendation: "DPYD Poor Metabolizer: 5-FU cannot be adequately cleared. Standard doses will cause severe or fatal toxicity (mucositis, neutropenia, neurotoxicity).",
		Monitoring:     "Do not administer standard 5-FU. Consider capecitabine dose reduction per DPYD guidelines or switch to an alternative regimen. Urgent oncology and clinical pharmacology review.",
	},
	"FLUOROURACIL:Ineffective": {
		Action:         "Proceed with standard dosing",
		Recommendation: "No efficacy concern from DPYD status alone.",
		Monitoring:     "Standard oncology monitoring.",
	},
	"FLUOROURACIL:Unknown": fallbackRecommendation,
}

// Recommend returns the guidance entry for the drug and risk label. It
// never fails: unlisted combinations resolve to the specialist-review
// fallback.
func Recommend(drug string, label domain.RiskLabel) domain.ClinicalRecommendation {
	if drug == "" || label == "" {
		return fallbackRecommendation
	}
	if rec, ok := recommendations[strings.ToUpper(drug)+":"+string(label)]; ok {
		return rec
	}
	return fallbackRecommendation
}
