package llm

const (
	// summarizePromptTemplate is the strict contract sent to the
	// collaborator: tokens are max tags, label kind, wrapper key, reserved
	// remainder label, and the raw label list.
	summarizePromptTemplate = `You are given a list of %[2]s labels collected from a social media account's analyzed content.
Return ONLY a JSON object of the form {"%[3]s":[{"tag":"...","percentage":N}]} with the %[1]d most frequent labels:
- merge near-duplicate labels into one generalized tag
- bucket everything that does not fit the top tags under "%[4]s"
- percentages are numbers summing to 100, sorted descending
No prose, no markdown fences, no explanations.

Labels: %[5]s`
)
