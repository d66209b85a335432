package domain

type GradingParameter struct {
	Id       ParamId
	Name     string  `validate:"required,max=64"`
	MaxScore float64 `validate:"gt=0"`
}

// StudentScore is one row of a student's grade sheet. Parameters without a
// recorded score read as zero.
type StudentScore struct {
	Student UserName
	Param   GradingParameter
	Score   float64
}
