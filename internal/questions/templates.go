package questions

// templateQuestions is the bilingual (English / Turkish) fallback set.
var templateQuestions = [Count]string{
	"What is the strongest technical skill on your CV? / CV'nizdeki en güçlü teknik beceri nedir?",
	"Describe a difficult problem you faced before and how you solved it. / Daha önce karşılaştığınız zor bir problemi anlatın.",
	"Tell us about your experience working in a team. / Takım çalışması deneyiminizden bahsedin.",
	"Why this position? / Neden bu pozisyon?",
	"What are your future goals? / Gelecek hedefleriniz neler?",
}

// Templates returns a copy of the fallback question set.
func Templates() []string {
	out := make([]string, Count)
	copy(out, templateQuestions[:])
	return out
}
