package model

type CommonParam struct {
	Operator uint64
}

type CommonParamInterface interface {
	SetOperator(op uint64)
}

func (p *CommonParam) SetOperator(op uint64) {
	p.Operator = op
}
