package category

// savingTips holds per-category saving advice, ordered from the easiest
// action to the most involved one. The reduction planner picks a prefix
// sized by how aggressive the proposed cut is.
var savingTips = map[Category][]string{
	Food: {
		"외식 횟수를 줄이고 집에서 간단한 요리 시도하기",
		"마트는 장보기 리스트를 미리 작성하고 불필요한 충동구매 피하기",
		"배달 앱 대신 직접 포장하여 배달비 절약하기",
		"점심 도시락 준비로 한 끼 비용 50% 절감",
	},
	Transport: {
		"가까운 거리는 걷거나 자전거 이용하기",
		"대중교통 정기권 또는 할인 카드 활용",
		"카풀이나 공유 서비스 고려하기",
		"택시 대신 심야버스나 지하철 막차 활용",
	},
	Shopping: {
		"구매 전 24시간 대기 규칙으로 충동구매 방지",
		"필요한 물건 리스트 작성 후 계획적 구매",
		"세일 기간과 할인 쿠폰 적극 활용",
		"중고 거래 플랫폼에서 먼저 검색하기",
	},
	Entertainment: {
		"유료 구독 서비스 정리 (사용하지 않는 것 해지)",
		"무료 문화 프로그램과 이벤트 찾아보기",
		"영화관 대신 홈시어터, OTT 활용",
		"친구들과 모임 시 집에서 파티 열기",
	},
	Health: {
		"헬스장 대신 홈트레이닝 앱 활용",
		"영양제는 정말 필요한 것만 구매",
		"병원 진료 전 건강보험 혜택 확인",
	},
	Utilities: {
		"에너지 절약형 가전제품 사용",
		"사용하지 않는 전자기기 플러그 뽑기",
		"냉난방 온도 1도 조절로 10% 절약",
		"샤워 시간 줄이고 절수 샤워기 사용",
	},
	Housing: {
		"월세 재협상 또는 보증금 전환 고려",
		"룸메이트와 주거비 분담",
	},
	Education: {
		"온라인 무료 강의 플랫폼 활용 (유튜브, Coursera)",
		"도서관 이용으로 책 구매 비용 절감",
	},
	Other: {
		"지출 내역 정기적으로 검토하기",
		"불필요한 구독과 멤버십 해지",
	},
}

// SavingTips returns up to n tips for a category. Unknown categories get
// the generic tips. n below 1 yields an empty slice.
func SavingTips(c Category, n int) []string {
	tips, ok := savingTips[c]
	if !ok {
		tips = savingTips[Other]
	}
	if n < 0 {
		n = 0
	}
	if n > len(tips) {
		n = len(tips)
	}
	out := make([]string, n)
	copy(out, tips[:n])
	return out
}
