package models

// Enemy - 고정된 적
type Enemy struct {
	Entity
	Predicted *Point `json:"predicted"` // 예측 위치 (생성 전에는 nil)
}

// NewEnemy - 적 생성
func NewEnemy(id int, pos Point) *Enemy {
	return &Enemy{
		Entity: Entity{
			ID:     id,
			Origin: pos,
			Kind:   KindEnemy,
		},
	}
}

// SetPredicted - 예측 위치 설정
func (e *Enemy) SetPredicted(p Point) {
	e.Predicted = &p
}

// PredictedPosition - 예측 위치, 아직 생성되지 않았으면 ok=false
func (e *Enemy) PredictedPosition() (Point, bool) {
	if e.Predicted == nil {
		return Point{}, false
	}
	return *e.Predicted, true
}
