// Package naming computes corrected file names for assets that embed a lot identifier.
//
// A Normalizer holds an ordered rule table. Classify picks the first rule that
// applies to a name and Normalize applies it:
//
//	RulePlaceholder  legacy fixed-name text file ("L00125.txt") -> "L05453.txt"
//	RuleLettered     "<letter><digits>" token equal to the old lot -> new lettered form
//	RuleBareLotText  text file named only by the lot payload -> new full form
//	RuleDigitRun     digit run starting with the old lot -> canonical new lot + repaired remainder
//	RuleSubstring    canonical old lot anywhere in the name -> canonical new lot
//	RuleNone         unchanged
//
// RuleDigitRun repairs the duplicate-digit artifact left by ingestion, where the
// trailing digits of the lot are echoed right after it:
//
//	0003889889000011pfb.jpg  (lot 3889, echo "889")  ->  0003889000011pfb.jpg
//
// An echo is only stripped when the digits left behind still fill a whole
// sequence id (Options.SequenceWidth), so a zero-padded sequence id is never
// mistaken for an echo of a lot ending in zero.
package naming
