package knowledge

// vocTemplates returns the Korean VOC categories (5 major, 16 sub) in
// declaration order. Severity keywords come from each category's priority
// signals; low-priority signals are omitted since low is the default.
func vocTemplates() []Entry {
	return []Entry{
		{
			ID:          "오류/버그",
			Taxonomy:    TaxonomyVOC,
			DisplayName: "오류/버그",
			Keywords: []string{
				"오류", "에러", "버그", "안됨", "실패", "작동안함", "멈춤", "깨짐",
				"안돼", "안되", "못함", "안열림", "안나옴", "꺼짐", "다운", "중단",
				"500", "504", "에러코드", "오작동", "장애", "고장",
			},
			Subcategories: []Subcategory{
				{
					Name: "시스템 오류",
					Code: "ERROR_SYSTEM",
					Keywords: []string{
						"서버", "접속", "다운", "504", "500", "502", "503",
						"타임아웃", "로딩", "화이트스크린", "빈화면", "서비스중단",
						"접속불가", "서버오류", "시스템장애", "무한로딩",
					},
					LogCategory: "api",
				},
				{
					Name: "UI/UX 오류",
					Code: "ERROR_UI",
					Keywords: []string{
						"버튼", "화면", "레이아웃", "깨짐", "안눌림", "터치",
						"팝업", "메뉴", "스크롤", "모바일", "태블릿", "반응형",
						"UI", "UX", "디자인", "표시", "겹침", "잘림",
					},
				},
				{
					Name: "데이터 오류",
					Code: "ERROR_DATA",
					Keywords: []string{
						"데이터", "유실", "사라짐", "삭제", "불일치", "안맞음",
						"통계", "수치", "집계", "누락", "중복", "틀림",
						"개인정보", "프로필", "정보오류", "필터오류",
					},
					LogCategory: "database",
				},
				{
					Name: "결제 오류",
					Code: "ERROR_PAYMENT",
					Keywords: []string{
						"결제", "카드", "승인", "환불", "PG", "간편결제",
						"이중결제", "중복청구", "결제실패", "결제오류",
						"카카오페이", "네이버페이", "토스", "금액오류",
					},
					LogCategory: "payment",
				},
			},
			TypicalCauses: []string{
				"최근 배포된 변경 사항으로 인한 회귀 오류",
				"특정 브라우저 또는 기기 환경에서만 발생하는 호환성 문제",
				"서버 측 예외 처리 누락",
				"외부 연동 서비스 장애",
			},
			RecommendedActions: []string{
				"재현 절차 확인 후 오류 로그 수집",
				"최근 배포 이력 및 변경 사항 검토",
				"영향 범위 파악 후 긴급 수정 배포",
			},
			SeverityKeywords: map[Severity][]string{
				SeverityHigh:   {"500", "504", "서버다운", "접속불가", "결제실패", "이중결제", "개인정보", "데이터유실"},
				SeverityMedium: {"화면깨짐", "버튼오류", "불일치", "통계오류", "필터오류"},
			},
		},
		{
			ID:          "기능 요청",
			Taxonomy:    TaxonomyVOC,
			DisplayName: "기능 요청",
			Keywords: []string{
				"추가", "요청", "기능", "개선", "개발", "만들어", "지원",
				"필요", "있으면", "좋겠", "바랍니다", "원합니다", "도입",
				"연동", "통합", "확장", "신규",
			},
			Subcategories: []Subcategory{
				{
					Name: "신규 기능",
					Code: "FEATURE_NEW",
					Keywords: []string{
						"새로운", "신규", "추가", "개발해주", "만들어주",
						"도입", "지원해주", "다크모드", "음성인식",
						"AI", "자동화", "챗봇", "알림톡",
					},
				},
				{
					Name: "기능 개선",
					Code: "FEATURE_IMPROVE",
					Keywords: []string{
						"개선", "보완", "업그레이드", "수정", "변경",
						"엑셀", "내보내기", "필터", "검색", "정렬",
						"커스터마이징", "대시보드", "알림설정", "세분화",
					},
				},
				{
					Name: "시스템 연동",
					Code: "FEATURE_INTEGRATION",
					Keywords: []string{
						"연동", "통합", "API", "슬랙", "JIRA", "CRM",
						"웹훅", "SSO", "외부시스템", "서드파티",
					},
					LogCategory: "api",
				},
			},
			TypicalCauses: []string{
				"현재 제공되지 않는 기능에 대한 업무상 필요",
				"기존 기능의 사용 흐름이 업무 방식과 맞지 않음",
				"외부 시스템과의 연동 부재",
			},
			RecommendedActions: []string{
				"요청 내용을 제품 백로그에 등록",
				"유사 요청 빈도와 업무 영향도 검토",
				"우선순위 결정 후 요청자에게 일정 안내",
			},
			SeverityKeywords: map[Severity][]string{
				SeverityHigh:   {"업무마비", "필수", "시급", "긴급"},
				SeverityMedium: {"불편", "비효율", "수작업", "반복"},
			},
		},
		{
			ID:          "문의",
			Taxonomy:    TaxonomyVOC,
			DisplayName: "문의",
			Keywords: []string{
				"문의", "질문", "궁금", "어떻게", "방법", "알려주",
				"모르겠", "어디서", "언제", "확인", "가능한가",
				"안내", "설명", "도움", "가이드",
			},
			Subcategories: []Subcategory{
				{
					Name: "사용 방법",
					Code: "INQUIRY_USAGE",
					Keywords: []string{
						"사용법", "사용방법", "매뉴얼", "가이드", "어떻게",
						"방법", "절차", "순서", "등록방법", "출력",
						"CSV", "업로드", "다운로드", "설정방법",
					},
					LogCategory: "file",
				},
				{
					Name: "계정 관련",
					Code: "INQUIRY_ACCOUNT",
					Keywords: []string{
						"계정", "비밀번호", "아이디", "로그인", "권한",
						"잠금", "해제", "탈퇴", "회원", "프로필",
						"팀원", "부서", "접근권한", "인증",
					},
					LogCategory: "auth",
				},
				{
					Name: "결제/환불",
					Code: "INQUIRY_PAYMENT",
					Keywords: []string{
						"결제", "환불", "요금", "가격", "구독",
						"청구", "세금계산서", "영수증", "카드",
						"요금제", "업그레이드", "플랜",
					},
					LogCategory: "payment",
				},
				{
					Name: "기타 문의",
					Code: "INQUIRY_ETC",
					Keywords: []string{
						"기타", "일반", "이용약관", "개인정보",
						"정책", "백업", "데이터", "API문서", "서비스안내",
					},
				},
			},
			TypicalCauses: []string{
				"기능 사용 방법에 대한 안내 부족",
				"도움말 또는 가이드 문서 접근성 부족",
				"정책 변경 사항 공지 미흡",
			},
			RecommendedActions: []string{
				"관련 가이드 문서 링크 안내",
				"자주 묻는 질문(FAQ) 항목 보강",
				"필요 시 담당자 직접 상담 연결",
			},
			SeverityKeywords: map[Severity][]string{
				SeverityHigh:   {"긴급", "계정잠금", "접근불가"},
				SeverityMedium: {"환불", "결제", "권한변경"},
			},
		},
		{
			ID:          "불만/개선",
			Taxonomy:    TaxonomyVOC,
			DisplayName: "불만/개선",
			Keywords: []string{
				"불만", "불편", "답답", "짜증", "화남", "실망",
				"개선", "느림", "느려", "오래걸", "기다림",
				"부족", "아쉬움", "불친절", "나쁨",
			},
			Subcategories: []Subcategory{
				{
					Name: "서비스 불만",
					Code: "COMPLAINT_SERVICE",
					Keywords: []string{
						"서비스", "품질", "안정성", "장애", "잦은오류",
						"기능변경", "공지없음", "불안정", "데이터유출",
						"보안", "업데이트", "제한적",
					},
				},
				{
					Name: "응대 불만",
					Code: "COMPLAINT_STAFF",
					Keywords: []string{
						"상담원", "응대", "불친절", "태도", "전화",
						"연결", "대기", "무시", "잘못된안내", "오안내",
						"CS", "고객센터", "콜센터",
					},
				},
				{
					Name: "속도/성능",
					Code: "COMPLAINT_PERFORMANCE",
					Keywords: []string{
						"느림", "느려", "속도", "성능", "로딩",
						"지연", "버벅", "렉", "응답시간", "무거움",
						"깜빡임", "새로고침", "업로드속도",
					},
					LogCategory: "database",
				},
			},
			TypicalCauses: []string{
				"반복되는 서비스 불안정으로 인한 신뢰 저하",
				"변경 사항에 대한 사전 공지 부족",
				"고객 응대 프로세스 미흡",
			},
			RecommendedActions: []string{
				"불편 사항에 대한 사과 및 처리 경과 안내",
				"재발 방지 대책 수립 및 공유",
				"서비스 품질 지표 모니터링 강화",
			},
			SeverityKeywords: map[Severity][]string{
				SeverityHigh:   {"불친절", "서비스장애", "데이터유출", "개인정보", "업무지장"},
				SeverityMedium: {"느림", "불편", "기능제한", "대기시간"},
			},
		},
		{
			ID:          "칭찬",
			Taxonomy:    TaxonomyVOC,
			DisplayName: "칭찬",
			Keywords: []string{
				"감사", "좋아요", "만족", "최고", "훌륭", "칭찬",
				"친절", "감동", "추천", "편리", "유용", "잘되",
				"고맙", "감격",
			},
			Subcategories: []Subcategory{
				{
					Name: "서비스 칭찬",
					Code: "PRAISE_SERVICE",
					Keywords: []string{
						"서비스", "기능", "시스템", "UI", "디자인",
						"업데이트", "보고서", "분석", "편리", "유용",
						"직관적", "효율", "자동화",
					},
				},
				{
					Name: "직원 칭찬",
					Code: "PRAISE_STAFF",
					Keywords: []string{
						"상담원", "담당자", "직원", "팀", "기술지원",
						"친절", "빠른대응", "전문성", "꼼꼼", "세심",
					},
				},
			},
			TypicalCauses: []string{
				"서비스 또는 담당자 응대에 대한 긍정적 경험",
			},
			RecommendedActions: []string{
				"감사 인사 회신",
				"칭찬 내용을 관련 팀 및 담당자에게 공유",
			},
			SeverityKeywords: map[Severity][]string{},
		},
	}
}
