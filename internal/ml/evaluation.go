package ml

// classThreshold converts regression scores into classes: strictly above
// is positive.
const classThreshold = 0.5

// Evaluation summarizes binary classification quality on a held-out set.
// The metrics are only meaningful when both classes appear in the held-out
// labels; Evaluable reports whether they do. Divisions by zero inside
// precision, recall, and F1 resolve to 0.
type Evaluation struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	TestRows  int     `json:"test_rows"`
	Evaluable bool    `json:"evaluable"`
}

// Evaluate scores predicted values against actual labels.
func Evaluate(predicted, actual []float64) Evaluation {
	ev := Evaluation{TestRows: len(actual)}
	if len(actual) == 0 || len(predicted) != len(actual) {
		return ev
	}

	positives := 0
	for _, a := range actual {
		if a > classThreshold {
			positives++
		}
	}
	if positives == 0 || positives == len(actual) {
		return ev
	}
	ev.Evaluable = true

	var tp, tn, fp, fn float64
	for i := range actual {
		predPositive := predicted[i] > classThreshold
		actualPositive := actual[i] > classThreshold
		switch {
		case predPositive && actualPositive:
			tp++
		case predPositive && !actualPositive:
			fp++
		case !predPositive && actualPositive:
			fn++
		default:
			tn++
		}
	}

	ev.Accuracy = (tp + tn) / float64(len(actual))
	ev.Precision = safeDivide(tp, tp+fp)
	ev.Recall = safeDivide(tp, tp+fn)
	ev.F1 = safeDivide(2*ev.Precision*ev.Recall, ev.Precision+ev.Recall)
	return ev
}

func safeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
